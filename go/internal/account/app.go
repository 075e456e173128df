// Package account reads and edits the logged-in user's profile.
package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// UsersClient defines what the account needs from the API client
type UsersClient interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// SessionEnder ends the session once the account is gone
type SessionEnder interface {
	ClearDeleted(ctx context.Context) error
}

// App handles the user profile
type App struct {
	client  UsersClient
	session SessionEnder
}

// NewApp creates a new account App
func NewApp(client UsersClient, session SessionEnder) *App {
	return &App{client: client, session: session}
}

// Get loads the user
func (a *App) Get(ctx context.Context, userID int64) (*models.User, error) {
	user, err := a.client.GetUser(ctx, userID)
	if err != nil {
		return nil, failures.Classify(failures.OpLoadUser, err)
	}
	return user, nil
}

// Update writes the changed profile fields and returns the user as stored
func (a *App) Update(ctx context.Context, userID int64, update models.UserUpdate) (*models.User, error) {
	if update.Password != nil && *update.Password == "" {
		return nil, failures.Validation(failures.OpUpdateUser, "Password must not be empty")
	}

	user, err := a.client.UpdateUser(ctx, userID, update)
	if err != nil {
		return nil, failures.Classify(failures.OpUpdateUser, err)
	}
	log.Info().Int64("user_id", userID).Msg("user updated")
	return user, nil
}

// Delete removes the account; the server cascades to the team and its players.
// The session ends with it.
func (a *App) Delete(ctx context.Context, userID int64) error {
	if err := a.client.DeleteUser(ctx, userID); err != nil {
		return failures.Classify(failures.OpDeleteUser, err)
	}
	log.Info().Int64("user_id", userID).Msg("account deleted")

	if err := a.session.ClearDeleted(ctx); err != nil {
		return fmt.Errorf("account deleted but session not cleared: %w", err)
	}
	return nil
}
