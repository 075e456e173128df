package failures_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/soccermanager/go/clients"
	"github.com/mcdev12/soccermanager/go/internal/failures"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    failures.Kind
		wantMessage string
	}{
		{
			name:        "unauthorized",
			err:         fmt.Errorf("failed to get team: %w", &clients.APIError{StatusCode: http.StatusUnauthorized}),
			wantKind:    failures.KindAuthentication,
			wantMessage: failures.SessionExpiredMessage,
		},
		{
			name:        "missing credentials",
			err:         clients.ErrNoCredentials,
			wantKind:    failures.KindAuthentication,
			wantMessage: failures.SessionExpiredMessage,
		},
		{
			name:        "bad request with message",
			err:         &clients.APIError{StatusCode: http.StatusBadRequest, Message: "age must be between 18 and 40"},
			wantKind:    failures.KindValidation,
			wantMessage: "age must be between 18 and 40",
		},
		{
			name:        "bad request without body",
			err:         &clients.APIError{StatusCode: http.StatusBadRequest},
			wantKind:    failures.KindTransport,
			wantMessage: "failed to update player",
		},
		{
			name:        "server error",
			err:         &clients.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"},
			wantKind:    failures.KindTransport,
			wantMessage: "failed to update player",
		},
		{
			name:        "network error",
			err:         errors.New("connection refused"),
			wantKind:    failures.KindTransport,
			wantMessage: "failed to update player",
		},
		{
			name:        "cancelled",
			err:         fmt.Errorf("failed to make request: %w", context.Canceled),
			wantKind:    failures.KindCancelled,
			wantMessage: "cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := failures.Classify(failures.OpUpdatePlayer, tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	first := failures.Classify(failures.OpBuyPlayer, &clients.APIError{StatusCode: http.StatusNotFound})
	second := failures.Classify(failures.OpLoadMarket, fmt.Errorf("wrapped: %w", first))

	assert.Same(t, first, second)
	assert.Equal(t, "failed to buy player", second.Message)
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, failures.Classify(failures.OpLogin, nil))
}

func TestPredicates(t *testing.T) {
	auth := failures.Classify(failures.OpLoadTeam, &clients.APIError{StatusCode: http.StatusUnauthorized})
	assert.True(t, failures.IsAuthentication(auth))
	assert.False(t, failures.IsValidation(auth))
	assert.Equal(t, http.StatusUnauthorized, failures.StatusOf(auth))

	invalid := failures.Validation(failures.OpListPlayer, "Please enter a valid ask price")
	assert.True(t, failures.IsValidation(invalid))
	assert.Equal(t, "Please enter a valid ask price", invalid.Error())
}
