package soccer_api_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/soccermanager/go/internal/models"
)

// Login exchanges credentials for a session
func (c *SoccerApiClient) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var session models.Session
	if err := c.PostPublic(ctx, AuthTokenEndpoint, creds, &session); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &session, nil
}

// Register creates an account together with its team and returns its session
func (c *SoccerApiClient) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	var session models.Session
	if err := c.PostPublic(ctx, UsersEndpoint, reg, &session); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &session, nil
}
