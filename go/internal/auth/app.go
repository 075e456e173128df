// Package auth establishes and tears down the session.
package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// Client defines what auth needs from the API client
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, reg models.Registration) (*models.Session, error)
}

// SessionStore defines what auth needs from the session store
type SessionStore interface {
	Set(ctx context.Context, sess models.Session) error
	Clear(ctx context.Context) error
}

// App handles login, registration and logout
type App struct {
	client Client
	store  SessionStore
}

// NewApp creates a new auth App
func NewApp(client Client, store SessionStore) *App {
	return &App{client: client, store: store}
}

// Login exchanges credentials for a session and persists it
func (a *App) Login(ctx context.Context, email, password string) (models.Session, error) {
	if email == "" || password == "" {
		return models.Session{}, failures.Validation(failures.OpLogin, "Email and password are required")
	}

	sess, err := a.client.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return models.Session{}, failures.Classify(failures.OpLogin, credentialsRejected(err))
	}
	if err := a.establish(ctx, *sess); err != nil {
		return models.Session{}, failures.Classify(failures.OpLogin, err)
	}

	log.Info().Str("email", email).Int64("team_id", sess.TeamID).Msg("logged in")
	return *sess, nil
}

// Register creates an account (and its team) and logs it in
func (a *App) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	if reg.Email == "" || reg.Password == "" {
		return models.Session{}, failures.Validation(failures.OpRegister, "Email and password are required")
	}
	if reg.Role == "" {
		reg.Role = models.RoleUser
	}

	sess, err := a.client.Register(ctx, reg)
	if err != nil {
		return models.Session{}, failures.Classify(failures.OpRegister, err)
	}
	if err := a.establish(ctx, *sess); err != nil {
		return models.Session{}, failures.Classify(failures.OpRegister, err)
	}

	log.Info().Str("email", reg.Email).Int64("team_id", sess.TeamID).Msg("registered")
	return *sess, nil
}

// Logout clears the session
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (a *App) establish(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("server returned an incomplete session")
	}
	return a.store.Set(ctx, sess)
}
