package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/soccermanager/go/internal/marketplace"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/status"
)

func TestOf(t *testing.T) {
	market := marketplace.NewSnapshot([]models.TransferListing{
		{ID: 10, Player: models.Player{ID: 1}, AskPrice: "1000000"},
		{ID: 11, Player: models.Player{ID: 2}, AskPrice: "1000000", Status: models.ListingStatusCompleted},
		{ID: 12, Player: models.Player{ID: 3}, AskPrice: "1000000", Status: models.ListingStatusPending},
	})

	tests := []struct {
		playerID int64
		want     models.PlayerStatus
	}{
		{1, models.PlayerStatusOnTransferList},
		{2, models.PlayerStatusActive},
		{3, models.PlayerStatusOnTransferList},
		{4, models.PlayerStatusActive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Of(tt.playerID, market), "player %d", tt.playerID)
	}
}

func TestOf_WithoutMarketplace(t *testing.T) {
	assert.Equal(t, models.PlayerStatusActive, status.Of(1, nil))
}

// every player's status must agree with a direct scan of the listings
func TestResolve_AgreesWithMembershipScan(t *testing.T) {
	roster := models.Team{ID: 7}
	for id := int64(1); id <= 20; id++ {
		roster.Players = append(roster.Players, models.Player{ID: id})
	}

	var listings []models.TransferListing
	for id := int64(1); id <= 20; id++ {
		switch id % 3 {
		case 0:
			listings = append(listings, models.TransferListing{ID: 100 + id, Player: models.Player{ID: id}})
		case 1:
			listings = append(listings, models.TransferListing{ID: 100 + id, Player: models.Player{ID: id}, Status: models.ListingStatusCompleted})
		}
	}
	market := marketplace.NewSnapshot(listings)

	rows := status.Resolve(roster, market)
	require.Len(t, rows, len(roster.Players))

	for i, row := range rows {
		assert.Equal(t, roster.Players[i].ID, row.Player.ID, "roster order preserved")

		listed := false
		for _, l := range listings {
			if l.Player.ID == row.Player.ID && l.Status != models.ListingStatusCompleted {
				listed = true
			}
		}
		if listed {
			assert.Equal(t, models.PlayerStatusOnTransferList, row.Status)
			require.NotNil(t, row.Listing)
			assert.Equal(t, row.Player.ID, row.Listing.Player.ID)
		} else {
			assert.Equal(t, models.PlayerStatusActive, row.Status)
			assert.Nil(t, row.Listing)
		}
	}
}
