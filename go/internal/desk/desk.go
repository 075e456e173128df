// Package desk is the application root: it wires the session, the caches and
// the workflows together and exposes what a front end renders.
package desk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/soccermanager/go/internal/account"
	"github.com/mcdev12/soccermanager/go/internal/auth"
	"github.com/mcdev12/soccermanager/go/internal/editing"
	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/lifecycle"
	"github.com/mcdev12/soccermanager/go/internal/marketplace"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/roster"
	"github.com/mcdev12/soccermanager/go/internal/session"
	"github.com/mcdev12/soccermanager/go/internal/transfer"
)

var (
	// ErrSignedOut is returned by every operation that needs a session when there is none
	ErrSignedOut = errors.New("not logged in")
	// ErrInvalidSort is returned for an unknown roster column or direction
	ErrInvalidSort = errors.New("invalid roster order")
)

// Client is the full API surface the desk drives
type Client interface {
	auth.Client
	roster.TeamsClient
	marketplace.TransfersClient
	account.UsersClient
}

// Desk holds one user's view of the game
type Desk struct {
	store     *session.Store
	auth      *auth.App
	roster    *roster.App
	market    *marketplace.App
	editor    *editing.Coordinator
	transfers *transfer.Workflow
	account   *account.App

	mu     sync.Mutex
	scope  *lifecycle.Scope
	notice string
	order  models.RosterOrder

	unsubscribe func()
}

// New creates a desk over client. The client must authenticate with store.
func New(store *session.Store, client Client) *Desk {
	return NewWithClock(store, client, nil)
}

// NewWithClock is New with an explicit clock for transfer busy markers
func NewWithClock(store *session.Store, client Client, clock transfer.Clock) *Desk {
	rosterApp := roster.NewApp(client)
	marketApp := marketplace.NewApp(client)

	workflow := transfer.NewWorkflow(marketApp, rosterApp)
	if clock != nil {
		workflow = transfer.NewWorkflowWithClock(marketApp, rosterApp, clock)
	}

	d := &Desk{
		store:     store,
		auth:      auth.NewApp(client, store),
		roster:    rosterApp,
		market:    marketApp,
		editor:    editing.NewCoordinator(rosterApp),
		transfers: workflow,
		account:   account.NewApp(client, store),
		order:     models.DefaultRosterOrder,
	}
	d.unsubscribe = store.Subscribe(d.onSessionChange)
	return d
}

// Start reloads the persisted session; a stored session opens the team view directly
func (d *Desk) Start(ctx context.Context) error {
	return d.store.Restore(ctx)
}

// Close detaches the desk from the session and cancels outstanding requests
func (d *Desk) Close() {
	d.unsubscribe()
	d.closeScope()
}

// Login authenticates and loads the team and the marketplace
func (d *Desk) Login(ctx context.Context, email, password string) (View, error) {
	if _, err := d.auth.Login(ctx, email, password); err != nil {
		return d.View(), err
	}
	return d.Refresh(ctx)
}

// Register creates an account with its team, logs in and loads the view
func (d *Desk) Register(ctx context.Context, reg models.Registration) (View, error) {
	if _, err := d.auth.Register(ctx, reg); err != nil {
		return d.View(), err
	}
	return d.Refresh(ctx)
}

// Logout ends the session and drops every cache
func (d *Desk) Logout(ctx context.Context) error {
	return d.auth.Logout(ctx)
}

// Refresh reloads the roster and the marketplace side by side
func (d *Desk) Refresh(ctx context.Context) (View, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	var rosterErr, marketErr error
	var g errgroup.Group
	g.Go(func() error {
		_, rosterErr = d.roster.Fetch(ctx, sess.TeamID)
		return rosterErr
	})
	g.Go(func() error {
		_, marketErr = d.market.Fetch(ctx)
		return marketErr
	})
	_ = g.Wait()
	return d.View(), d.report(significant(rosterErr, marketErr))
}

// RefreshMarket reloads the marketplace only
func (d *Desk) RefreshMarket(ctx context.Context) (View, error) {
	_, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	_, err = d.market.Fetch(ctx)
	return d.View(), d.report(err)
}

// StartTeamEdit opens the edit slot on the team
func (d *Desk) StartTeamEdit() error {
	team, ok := d.roster.Snapshot()
	if !ok {
		return ErrSignedOut
	}
	return d.editor.StartTeamEdit(team)
}

// StartPlayerEdit opens the edit slot on one of the team's players
func (d *Desk) StartPlayerEdit(playerID int64) error {
	team, ok := d.roster.Snapshot()
	if !ok {
		return ErrSignedOut
	}
	p, ok := team.Player(playerID)
	if !ok {
		return failures.Validation(failures.OpUpdatePlayer, "Player is not on your team")
	}
	return d.editor.StartPlayerEdit(team.ID, p)
}

// EditTeam changes the open team draft
func (d *Desk) EditTeam(fn func(*editing.TeamFields)) error {
	return d.editor.EditTeam(fn)
}

// EditPlayer changes the open player draft
func (d *Desk) EditPlayer(fn func(*editing.PlayerFields)) error {
	return d.editor.EditPlayer(fn)
}

// SaveEdit writes the open draft; on failure the draft stays open for correction
func (d *Desk) SaveEdit(ctx context.Context) (View, error) {
	_, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	err = d.editor.Save(ctx)
	return d.View(), d.report(err)
}

// SortRoster orders the roster rows by key. An empty direction means ascending.
func (d *Desk) SortRoster(key models.SortKey, dir models.SortDirection) (View, error) {
	if dir == "" {
		dir = models.SortAsc
	}
	if !key.Valid() || (dir != models.SortAsc && dir != models.SortDesc) {
		return d.View(), fmt.Errorf("%w: %s %s", ErrInvalidSort, key, dir)
	}
	d.mu.Lock()
	d.order = models.RosterOrder{Key: key, Direction: dir}
	d.mu.Unlock()
	return d.View(), nil
}

// ToggleSort selects a roster column the way a table header click does
func (d *Desk) ToggleSort(key models.SortKey) (View, error) {
	if !key.Valid() {
		return d.View(), fmt.Errorf("%w: %s", ErrInvalidSort, key)
	}
	d.mu.Lock()
	d.order = d.order.Toggle(key)
	d.mu.Unlock()
	return d.View(), nil
}

// CancelEdit discards the open draft
func (d *Desk) CancelEdit() {
	d.editor.Cancel()
}

// List puts one of the team's players on the marketplace
func (d *Desk) List(ctx context.Context, playerID int64, askPrice string) (View, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	_, err = d.transfers.List(ctx, sess.TeamID, playerID, askPrice)
	return d.View(), d.report(err)
}

// Reprice changes the ask price of one of the team's listings
func (d *Desk) Reprice(ctx context.Context, listingID int64, askPrice string) (View, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	_, err = d.transfers.Reprice(ctx, sess.TeamID, listingID, askPrice)
	return d.View(), d.report(err)
}

// Unlist withdraws one of the team's listings
func (d *Desk) Unlist(ctx context.Context, listingID int64) (View, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	_, err = d.transfers.Unlist(ctx, sess.TeamID, listingID)
	return d.View(), d.report(err)
}

// Buy purchases another team's listing. The roster is reloaded afterwards
// because the bought player joins it and the budget changes.
func (d *Desk) Buy(ctx context.Context, listingID int64) (View, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return d.View(), err
	}
	defer done()

	_, err = d.transfers.Buy(ctx, sess.TeamID, listingID)
	if err == nil || errors.Is(err, transfer.ErrStaleAfterWrite) {
		if _, rerr := d.roster.Fetch(ctx, sess.TeamID); rerr != nil && err == nil {
			err = rerr
		}
	}
	return d.View(), d.report(err)
}

// Me loads the logged-in user
func (d *Desk) Me(ctx context.Context) (*models.User, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	user, err := d.account.Get(ctx, sess.UserID)
	return user, d.report(err)
}

// UpdateMe writes the changed profile fields
func (d *Desk) UpdateMe(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	user, err := d.account.Update(ctx, sess.UserID, update)
	return user, d.report(err)
}

// DeleteAccount removes the user with its team and ends the session
func (d *Desk) DeleteAccount(ctx context.Context) error {
	sess, ctx, done, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	return d.report(d.account.Delete(ctx, sess.UserID))
}

// begin gates an operation on the session and binds ctx to the current view scope
func (d *Desk) begin(ctx context.Context) (models.Session, context.Context, func(), error) {
	sess, ok := d.store.Current()
	if !ok {
		return models.Session{}, ctx, func() {}, ErrSignedOut
	}

	d.mu.Lock()
	scope := d.scope
	d.mu.Unlock()
	if scope == nil {
		scope = d.openScope()
	}

	op := scope.Child()
	stop := context.AfterFunc(ctx, op.Close)
	return sess, op.Context(), func() {
		stop()
		op.Close()
	}, nil
}

// report logs failures that end the session; everything else is returned as is
func (d *Desk) report(err error) error {
	if err == nil {
		return nil
	}
	if failures.IsAuthentication(err) {
		log.Warn().Err(err).Msg("session ended by the server")
	}
	return err
}

// significant picks the error to show when two requests failed together.
// A rejected session wins over the cancellations it causes.
func significant(errs ...error) error {
	var first error
	for _, err := range errs {
		switch {
		case err == nil:
		case failures.IsAuthentication(err):
			return err
		case first == nil || failures.IsCancelled(first):
			first = err
		}
	}
	return first
}

func (d *Desk) openScope() *lifecycle.Scope {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scope != nil {
		d.scope.Close()
	}
	d.scope = lifecycle.NewScope(context.Background())
	d.notice = ""
	return d.scope
}

func (d *Desk) closeScope() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scope != nil {
		d.scope.Close()
		d.scope = nil
	}
}

// onSessionChange runs inside the session store's publish; it must not call back into the store
func (d *Desk) onSessionChange(c session.Change) {
	d.roster.Reset()
	d.market.Reset()
	d.editor.Cancel()

	if c.Authenticated {
		d.openScope()
		return
	}
	d.closeScope()

	d.mu.Lock()
	d.order = models.DefaultRosterOrder
	switch c.Reason {
	case session.ReasonExpired, session.ReasonCorrupt:
		d.notice = failures.SessionExpiredMessage
	default:
		d.notice = ""
	}
	d.mu.Unlock()

	log.Info().Str("reason", string(c.Reason)).Msg("view returned to login")
}
