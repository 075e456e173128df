package soccer_api_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/soccermanager/go/internal/models"
)

func (c *SoccerApiClient) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, fmt.Sprintf(UserEndpoint, userID), &user); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (c *SoccerApiClient) UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.Patch(ctx, fmt.Sprintf(UserEndpoint, userID), update, &user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func (c *SoccerApiClient) DeleteUser(ctx context.Context, userID int64) error {
	if err := c.Delete(ctx, fmt.Sprintf(UserEndpoint, userID)); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
