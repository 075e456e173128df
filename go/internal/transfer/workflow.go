// Package transfer runs list, reprice, unlist and buy against the marketplace
// with at most one in-flight request per player.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/marketplace"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/money"
)

var (
	// ErrBusy is returned when the same player already has a request in flight
	ErrBusy = errors.New("a transfer request for this player is already in progress")
	// ErrListingGone means the listing was removed before the request landed,
	// typically because another team bought the player first
	ErrListingGone = errors.New("listing no longer exists")
	// ErrStaleAfterWrite means the transition succeeded but the marketplace reload failed
	ErrStaleAfterWrite = errors.New("transfer succeeded but marketplace reload failed")
)

const (
	// InvalidAskPriceMessage is shown when the ask price is not a positive amount
	InvalidAskPriceMessage = "Please enter a valid ask price"
	NotYourPlayerMessage   = "Player is not on your team"
	NotYourListingMessage  = "Only your own players can be repriced or removed from the transfer list"
	OwnListingMessage      = "You cannot buy your own player"
)

// Marketplace defines what the workflow needs from the marketplace cache
type Marketplace interface {
	Fetch(ctx context.Context) (marketplace.Snapshot, error)
	Snapshot() (marketplace.Snapshot, bool)
	Create(ctx context.Context, teamID, playerID int64, askPrice string) (*models.TransferListing, error)
	Reprice(ctx context.Context, teamID, listingID int64, askPrice string) (*models.TransferListing, error)
	Remove(ctx context.Context, teamID, listingID int64) error
	Buy(ctx context.Context, teamID, listingID int64) error
}

// Roster is the acting team's cached roster. Ownership of a listing is
// decided by whether its player is on this roster.
type Roster interface {
	Snapshot() (models.Team, bool)
	Fetch(ctx context.Context, teamID int64) (models.Team, error)
}

// Clock is the time source for busy markers
type Clock interface {
	Now() time.Time
}

// Workflow drives the per-player Unlisted/Listed state machine. The state
// itself lives on the server; every successful transition re-fetches the
// whole marketplace instead of editing the cache.
type Workflow struct {
	market Marketplace
	roster Roster
	clock  Clock

	// busy markers, one per player
	inFlight   map[int64]time.Time
	inFlightMu sync.Mutex
}

// NewWorkflow creates a workflow over market, acting for the team cached in roster
func NewWorkflow(market Marketplace, roster Roster) *Workflow {
	return NewWorkflowWithClock(market, roster, clockwork.NewRealClock())
}

// NewWorkflowWithClock is NewWorkflow with an explicit clock, for tests
func NewWorkflowWithClock(market Marketplace, roster Roster, clock Clock) *Workflow {
	return &Workflow{
		market:   market,
		roster:   roster,
		clock:    clock,
		inFlight: make(map[int64]time.Time),
	}
}

// List puts an unlisted player of the team on the market. Duplicate listings are rejected by the server.
func (w *Workflow) List(ctx context.Context, teamID, playerID int64, askPrice string) (marketplace.Snapshot, error) {
	price, err := money.ValidateAskPrice(askPrice)
	if err != nil {
		return marketplace.Snapshot{}, failures.Validation(failures.OpListPlayer, InvalidAskPriceMessage)
	}

	team, err := w.team(ctx, teamID)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	if !team.HasPlayer(playerID) {
		return marketplace.Snapshot{}, failures.Validation(failures.OpListPlayer, NotYourPlayerMessage)
	}

	release, err := w.acquire(playerID)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	defer release()

	listing, err := w.market.Create(ctx, teamID, playerID, price)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	log.Info().
		Int64("team_id", teamID).
		Int64("player_id", playerID).
		Int64("listing_id", listing.ID).
		Str("ask_price", price).
		Msg("player listed")

	return w.refresh(ctx)
}

// Reprice changes the ask price of one of the team's listings
func (w *Workflow) Reprice(ctx context.Context, teamID, listingID int64, askPrice string) (marketplace.Snapshot, error) {
	price, err := money.ValidateAskPrice(askPrice)
	if err != nil {
		return marketplace.Snapshot{}, failures.Validation(failures.OpRepriceListing, InvalidAskPriceMessage)
	}

	listing, err := w.owned(ctx, failures.OpRepriceListing, teamID, listingID, true)
	if err != nil {
		return marketplace.Snapshot{}, err
	}

	release, err := w.acquire(listing.Player.ID)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	defer release()

	if _, err := w.market.Reprice(ctx, teamID, listingID, price); err != nil {
		return marketplace.Snapshot{}, err
	}
	log.Info().Int64("team_id", teamID).Int64("listing_id", listingID).Str("ask_price", price).Msg("listing repriced")

	return w.refresh(ctx)
}

// Unlist withdraws one of the team's listings. The server treats a removal by
// any other team as a purchase, so listings of other teams are refused here.
func (w *Workflow) Unlist(ctx context.Context, teamID, listingID int64) (marketplace.Snapshot, error) {
	listing, err := w.owned(ctx, failures.OpUnlistPlayer, teamID, listingID, true)
	if err != nil {
		return marketplace.Snapshot{}, err
	}

	release, err := w.acquire(listing.Player.ID)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	defer release()

	if err := w.market.Remove(ctx, teamID, listingID); err != nil {
		return marketplace.Snapshot{}, err
	}
	log.Info().Int64("team_id", teamID).Int64("listing_id", listingID).Msg("listing withdrawn")

	return w.refresh(ctx)
}

// Buy purchases another team's listing for teamID. Races between buyers are
// settled by the server; the loser gets ErrListingGone.
func (w *Workflow) Buy(ctx context.Context, teamID, listingID int64) (marketplace.Snapshot, error) {
	listing, err := w.owned(ctx, failures.OpBuyPlayer, teamID, listingID, false)
	if err != nil {
		return marketplace.Snapshot{}, err
	}

	release, err := w.acquire(listing.Player.ID)
	if err != nil {
		return marketplace.Snapshot{}, err
	}
	defer release()

	if err := w.market.Buy(ctx, teamID, listingID); err != nil {
		return marketplace.Snapshot{}, listingGone(err)
	}
	log.Info().Int64("team_id", teamID).Int64("listing_id", listingID).Int64("player_id", listing.Player.ID).Msg("player bought")

	return w.refresh(ctx)
}

// Busy reports whether the player has a transfer request in flight
func (w *Workflow) Busy(playerID int64) bool {
	w.inFlightMu.Lock()
	defer w.inFlightMu.Unlock()
	_, ok := w.inFlight[playerID]
	return ok
}

// ListingBusy reports whether the listed player has a request in flight.
// Listings missing from the cached marketplace are never busy.
func (w *Workflow) ListingBusy(listingID int64) bool {
	snap, ok := w.market.Snapshot()
	if !ok {
		return false
	}
	l, found := snap.Listing(listingID)
	return found && w.Busy(l.Player.ID)
}

// acquire sets the busy marker for the player and returns its release func
func (w *Workflow) acquire(playerID int64) (func(), error) {
	w.inFlightMu.Lock()
	defer w.inFlightMu.Unlock()

	if since, ok := w.inFlight[playerID]; ok {
		log.Debug().Int64("player_id", playerID).Dur("in_flight", w.clock.Now().Sub(since)).Msg("rejecting concurrent transfer request")
		return nil, ErrBusy
	}
	w.inFlight[playerID] = w.clock.Now()

	return func() {
		w.inFlightMu.Lock()
		defer w.inFlightMu.Unlock()
		delete(w.inFlight, playerID)
	}, nil
}

// team returns the acting team, loading it when the cache holds none
func (w *Workflow) team(ctx context.Context, teamID int64) (models.Team, error) {
	if team, ok := w.roster.Snapshot(); ok && team.ID == teamID {
		return team, nil
	}
	return w.roster.Fetch(ctx, teamID)
}

// listing finds an active listing, re-fetching the marketplace once when the
// cache does not know it. A listing that is still missing is gone.
func (w *Workflow) listing(ctx context.Context, op string, listingID int64) (models.TransferListing, error) {
	if snap, ok := w.market.Snapshot(); ok {
		if l, found := snap.Listing(listingID); found && l.Active() {
			return l, nil
		}
	}

	snap, err := w.market.Fetch(ctx)
	if err != nil {
		return models.TransferListing{}, err
	}
	if l, found := snap.Listing(listingID); found && l.Active() {
		return l, nil
	}
	log.Debug().Int64("listing_id", listingID).Msg("listing not on the marketplace")
	return models.TransferListing{}, gone(op, http.StatusNotFound, ErrListingGone)
}

// owned resolves the listing and checks which side of it teamID is on:
// reprice and unlist need the team's own player, buy needs someone else's.
func (w *Workflow) owned(ctx context.Context, op string, teamID, listingID int64, wantOwn bool) (models.TransferListing, error) {
	listing, err := w.listing(ctx, op, listingID)
	if err != nil {
		return models.TransferListing{}, err
	}
	team, err := w.team(ctx, teamID)
	if err != nil {
		return models.TransferListing{}, err
	}

	own := team.HasPlayer(listing.Player.ID)
	switch {
	case wantOwn && !own:
		return models.TransferListing{}, failures.Validation(op, NotYourListingMessage)
	case !wantOwn && own:
		return models.TransferListing{}, failures.Validation(op, OwnListingMessage)
	}
	return listing, nil
}

// refresh runs strictly after the write has completed
func (w *Workflow) refresh(ctx context.Context) (marketplace.Snapshot, error) {
	snapshot, err := w.market.Fetch(ctx)
	if err != nil {
		return marketplace.Snapshot{}, fmt.Errorf("%w: %w", ErrStaleAfterWrite, err)
	}
	return snapshot, nil
}

// listingGone turns a 404/409 on purchase into the generic buy failure that asks for a refresh
func listingGone(err error) error {
	status := failures.StatusOf(err)
	if status != http.StatusNotFound && status != http.StatusConflict {
		return err
	}
	return gone(failures.OpBuyPlayer, status, errors.Join(ErrListingGone, err))
}

func gone(op string, status int, err error) *failures.Error {
	return &failures.Error{
		Kind:    failures.KindTransport,
		Op:      op,
		Message: failures.Generic(op) + ", please refresh the transfer market",
		Status:  status,
		Err:     err,
	}
}
