package soccer_api_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/soccermanager/go/internal/models"
)

// ListTransfers loads every team's listings, unfiltered
func (c *SoccerApiClient) ListTransfers(ctx context.Context) ([]models.TransferListing, error) {
	var listings []models.TransferListing
	if err := c.Get(ctx, TransfersEndpoint, &listings); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return listings, nil
}

// CreateTransfer puts one of the team's players on the market
func (c *SoccerApiClient) CreateTransfer(ctx context.Context, teamID, playerID int64, askPrice string) (*models.TransferListing, error) {
	var listing models.TransferListing
	req := models.CreateListingRequest{PlayerID: playerID, AskPrice: askPrice}
	if err := c.Post(ctx, fmt.Sprintf(TeamTransfersEndpoint, teamID), req, &listing); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}
	return &listing, nil
}

// UpdateTransfer changes the ask price of a listing
func (c *SoccerApiClient) UpdateTransfer(ctx context.Context, teamID, listingID int64, askPrice string) (*models.TransferListing, error) {
	var listing models.TransferListing
	req := models.RepriceListingRequest{AskPrice: askPrice}
	if err := c.Patch(ctx, fmt.Sprintf(TeamTransferEndpoint, teamID, listingID), req, &listing); err != nil {
		return nil, fmt.Errorf("failed to update transfer: %w", err)
	}
	return &listing, nil
}

// DeleteTransfer removes a listing. The server treats the call as a cancellation
// when teamID owns the listed player and as a purchase otherwise.
func (c *SoccerApiClient) DeleteTransfer(ctx context.Context, teamID, listingID int64) error {
	if err := c.Delete(ctx, fmt.Sprintf(TeamTransferEndpoint, teamID, listingID)); err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	return nil
}
