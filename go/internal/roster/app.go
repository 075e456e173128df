package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/lifecycle"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// ErrStaleAfterWrite means the write was accepted but the reload that follows it failed
var ErrStaleAfterWrite = errors.New("write succeeded but roster reload failed")

// TeamsClient defines what the roster needs from the API client
type TeamsClient interface {
	GetTeam(ctx context.Context, teamID int64) (*models.Team, error)
	UpdateTeam(ctx context.Context, teamID int64, update models.TeamUpdate) (*models.Team, error)
	UpdatePlayer(ctx context.Context, teamID, playerID int64, update models.PlayerUpdate) (*models.Player, error)
}

// App caches the authenticated user's team and its players
type App struct {
	client TeamsClient
	gen    lifecycle.Generation

	mu   sync.RWMutex
	team *models.Team
}

// NewApp creates a new roster App
func NewApp(client TeamsClient) *App {
	return &App{client: client}
}

// Fetch loads the team with its players in one round trip and replaces the cache.
// Responses that arrive after ctx is cancelled, or after a newer response, are dropped.
func (a *App) Fetch(ctx context.Context, teamID int64) (models.Team, error) {
	n := a.gen.Next()

	team, err := a.client.GetTeam(ctx, teamID)
	if err != nil {
		return models.Team{}, failures.Classify(failures.OpLoadTeam, err)
	}
	if err := ctx.Err(); err != nil {
		log.Debug().Int64("team_id", teamID).Msg("dropping roster response for closed scope")
		return models.Team{}, failures.Classify(failures.OpLoadTeam, err)
	}

	snapshot := team.Clone()
	snapshot.Players = models.SortByPosition(snapshot.Players)

	applied := a.gen.Apply(n, func() {
		a.mu.Lock()
		a.team = &snapshot
		a.mu.Unlock()
	})
	if !applied {
		log.Debug().Int64("team_id", teamID).Uint64("generation", n).Msg("dropping out-of-order roster response")
	} else {
		log.Debug().Int64("team_id", teamID).Int("players", len(snapshot.Players)).Msg("roster refreshed")
	}

	current, ok := a.Snapshot()
	if !ok {
		// reset while the request was in flight
		return models.Team{}, failures.Classify(failures.OpLoadTeam, context.Canceled)
	}
	return current, nil
}

// Snapshot returns a copy of the cached team and whether one is loaded
func (a *App) Snapshot() (models.Team, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.team == nil {
		return models.Team{}, false
	}
	return a.team.Clone(), true
}

// Reset drops the cache and every in-flight response (logout, expiry)
func (a *App) Reset() {
	a.gen.Invalidate()
	a.mu.Lock()
	a.team = nil
	a.mu.Unlock()
}

// UpdateTeam writes name and/or country, then reloads the whole team.
// A failed write leaves the cache untouched.
func (a *App) UpdateTeam(ctx context.Context, teamID int64, update models.TeamUpdate) error {
	if update.Empty() {
		return nil
	}

	if _, err := a.client.UpdateTeam(ctx, teamID, update); err != nil {
		log.Warn().Err(err).Int64("team_id", teamID).Msg("team update rejected")
		return failures.Classify(failures.OpUpdateTeam, err)
	}
	log.Info().Int64("team_id", teamID).Msg("team updated")

	return a.reloadAfterWrite(ctx, teamID)
}

// UpdatePlayer writes a partial player update, then reloads the whole team so
// server-computed aggregates such as the team market value are current.
func (a *App) UpdatePlayer(ctx context.Context, teamID, playerID int64, update models.PlayerUpdate) error {
	if update.Empty() {
		return nil
	}

	if _, err := a.client.UpdatePlayer(ctx, teamID, playerID, update); err != nil {
		log.Warn().Err(err).Int64("team_id", teamID).Int64("player_id", playerID).Msg("player update rejected")
		return failures.Classify(failures.OpUpdatePlayer, err)
	}
	log.Info().Int64("team_id", teamID).Int64("player_id", playerID).Msg("player updated")

	return a.reloadAfterWrite(ctx, teamID)
}

func (a *App) reloadAfterWrite(ctx context.Context, teamID int64) error {
	if _, err := a.Fetch(ctx, teamID); err != nil {
		return fmt.Errorf("%w: %w", ErrStaleAfterWrite, err)
	}
	return nil
}
