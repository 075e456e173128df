// Package marketplace caches the global, unfiltered transfer listing collection.
package marketplace

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/lifecycle"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// TransfersClient defines what the marketplace needs from the API client
type TransfersClient interface {
	ListTransfers(ctx context.Context) ([]models.TransferListing, error)
	CreateTransfer(ctx context.Context, teamID, playerID int64, askPrice string) (*models.TransferListing, error)
	UpdateTransfer(ctx context.Context, teamID, listingID int64, askPrice string) (*models.TransferListing, error)
	DeleteTransfer(ctx context.Context, teamID, listingID int64) error
}

// App owns the marketplace snapshot. Writes never touch the cache; callers
// re-fetch after a successful write.
type App struct {
	client TransfersClient
	gen    lifecycle.Generation

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewApp creates a new marketplace App
func NewApp(client TransfersClient) *App {
	return &App{client: client}
}

// Fetch loads every team's listings and replaces the cache
func (a *App) Fetch(ctx context.Context) (Snapshot, error) {
	n := a.gen.Next()

	listings, err := a.client.ListTransfers(ctx)
	if err != nil {
		return Snapshot{}, failures.Classify(failures.OpLoadMarket, err)
	}
	if err := ctx.Err(); err != nil {
		log.Debug().Msg("dropping marketplace response for closed scope")
		return Snapshot{}, failures.Classify(failures.OpLoadMarket, err)
	}

	fresh := NewSnapshot(listings)
	applied := a.gen.Apply(n, func() {
		a.mu.Lock()
		a.snapshot = &fresh
		a.mu.Unlock()
	})
	if !applied {
		log.Debug().Uint64("generation", n).Msg("dropping out-of-order marketplace response")
	} else {
		log.Debug().Int("listings", fresh.Len()).Msg("marketplace refreshed")
	}

	current, ok := a.Snapshot()
	if !ok {
		return Snapshot{}, failures.Classify(failures.OpLoadMarket, context.Canceled)
	}
	return current, nil
}

// Snapshot returns the cached listings and whether they were loaded
func (a *App) Snapshot() (Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snapshot == nil {
		return Snapshot{}, false
	}
	return *a.snapshot, true
}

// Reset drops the cache and every in-flight response
func (a *App) Reset() {
	a.gen.Invalidate()
	a.mu.Lock()
	a.snapshot = nil
	a.mu.Unlock()
}

// Create lists a player owned by teamID. Uniqueness is enforced by the server.
func (a *App) Create(ctx context.Context, teamID, playerID int64, askPrice string) (*models.TransferListing, error) {
	listing, err := a.client.CreateTransfer(ctx, teamID, playerID, askPrice)
	if err != nil {
		return nil, failures.Classify(failures.OpListPlayer, err)
	}
	return listing, nil
}

// Reprice changes the ask price of a listing owned by teamID
func (a *App) Reprice(ctx context.Context, teamID, listingID int64, askPrice string) (*models.TransferListing, error) {
	listing, err := a.client.UpdateTransfer(ctx, teamID, listingID, askPrice)
	if err != nil {
		return nil, failures.Classify(failures.OpRepriceListing, err)
	}
	return listing, nil
}

// Remove withdraws a listing owned by teamID
func (a *App) Remove(ctx context.Context, teamID, listingID int64) error {
	return a.resolve(ctx, teamID, listingID, failures.OpUnlistPlayer)
}

// Buy removes another team's listing on behalf of teamID; the server moves
// the player to the buyer as part of the same call.
func (a *App) Buy(ctx context.Context, teamID, listingID int64) error {
	return a.resolve(ctx, teamID, listingID, failures.OpBuyPlayer)
}

// resolve is the single removal endpoint shared by withdraw and purchase.
// The server decides which one happened from the acting team.
func (a *App) resolve(ctx context.Context, actingTeamID, listingID int64, op string) error {
	if err := a.client.DeleteTransfer(ctx, actingTeamID, listingID); err != nil {
		return failures.Classify(op, err)
	}
	return nil
}
