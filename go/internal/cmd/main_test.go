package main

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcdev12/soccermanager/go/clients"
	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/marketplace"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/status"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "signed out",
			err:  fmt.Errorf("wrapped: %w", desk.ErrSignedOut),
			want: "You are not logged in. Run `soccermanager login` first.",
		},
		{
			name: "validation with fields",
			err: failures.Classify(failures.OpUpdatePlayer, &clients.APIError{
				StatusCode: http.StatusBadRequest,
				Message:    "One or more required fields are invalid",
				Fields:     []clients.FieldError{{Field: "age", RejectReason: "must be greater than or equal to 18"}},
			}),
			want: "One or more required fields are invalid\n  age: must be greater than or equal to 18",
		},
		{
			name: "transport",
			err:  failures.Classify(failures.OpBuyPlayer, &clients.APIError{StatusCode: http.StatusBadGateway}),
			want: "failed to buy player",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.err))
		})
	}
}

func TestRenderTeam(t *testing.T) {
	listing := models.TransferListing{ID: 9, AskPrice: "1500000"}
	view := desk.View{
		Authenticated: true,
		Team: &models.Team{
			Name: "Red Lions", Country: "Spain", MarketValue: "20000000", Budget: "5000000",
		},
		Order: models.DefaultRosterOrder,
		Rows: []desk.Row{
			{
				Row: status.Row{
					Player: models.Player{ID: 1, FirstName: "Ada", LastName: "Silva", Position: models.PositionGoalkeeper, Age: 20, MarketValue: "1000000"},
					Status: models.PlayerStatusActive,
				},
				Editing: true,
			},
			{
				Row: status.Row{
					Player:  models.Player{ID: 2, FirstName: "Bo", LastName: "Kane", Position: models.PositionAttacker, Age: 30, MarketValue: "1000000"},
					Status:  models.PlayerStatusOnTransferList,
					Listing: &listing,
				},
				Busy: true,
			},
		},
	}

	var buf bytes.Buffer
	renderTeam(&buf, view)

	got := buf.String()
	assert.Contains(t, got, "Red Lions (Spain)")
	assert.Contains(t, got, "Market value: 20,000,000.00   Budget: 5,000,000.00")
	assert.Contains(t, got, "Sorted by position asc")
	assert.Contains(t, got, "* Ada Silva")
	assert.Contains(t, got, "ON_TRANSFER_LIST @ 1,500,000.00 (listing 9) [transfer in progress]")
}

func TestRenderMarket(t *testing.T) {
	var buf bytes.Buffer
	renderMarket(&buf, desk.View{Authenticated: true})
	assert.Equal(t, "The transfer market is empty.\n", buf.String())

	buf.Reset()
	renderMarket(&buf, desk.View{
		Authenticated: true,
		Offers: []desk.OfferRow{
			{Offer: marketplace.Offer{
				Listing: models.TransferListing{ID: 4, AskPrice: "250000.5", Player: models.Player{FirstName: "Cy", MarketValue: "1100000"}},
				Own:     true,
			}},
			{Offer: marketplace.Offer{
				Listing: models.TransferListing{ID: 5, AskPrice: "900000", Player: models.Player{
					FirstName: "Dee", MarketValue: "1000000", Team: &models.TeamRef{ID: 3, Name: "Blue Harbour"},
				}},
			}, Busy: true},
		},
	})
	assert.Contains(t, buf.String(), "250,000.50")
	assert.Contains(t, buf.String(), "yours")
	assert.Contains(t, buf.String(), "Blue Harbour")
	assert.Contains(t, buf.String(), "transfer in progress")
}

func TestRenderSignedOut(t *testing.T) {
	var buf bytes.Buffer
	renderTeam(&buf, desk.View{Notice: failures.SessionExpiredMessage})
	assert.Equal(t, "Session expired. Please login again.\n", buf.String())
}
