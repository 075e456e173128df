package desk_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/soccermanager/go/clients/soccer_api_client"
	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/editing"
	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/fakeserver"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/session"
	"github.com/mcdev12/soccermanager/go/internal/transfer"
)

const password = "secret"

type world struct {
	url   string
	clock *clockwork.FakeClock
}

func newWorld(t *testing.T) *world {
	t.Helper()
	clock := clockwork.NewFakeClock()
	srv := httptest.NewServer(fakeserver.NewWithClock(fakeserver.Config{TokenTTL: time.Hour, Seed: 7}, clock).Handler())
	t.Cleanup(srv.Close)
	return &world{url: srv.URL, clock: clock}
}

func (w *world) deskWith(t *testing.T, storage session.Storage) *desk.Desk {
	t.Helper()
	store := session.NewStore(storage)
	d := desk.NewWithClock(store, soccer_api_client.NewSoccerApiClient(w.url, store), w.clock)
	t.Cleanup(d.Close)
	return d
}

func (w *world) desk(t *testing.T) *desk.Desk {
	return w.deskWith(t, session.NewMemoryStorage())
}

// manager registers a fresh account and returns its loaded desk
func (w *world) manager(t *testing.T, email string) (*desk.Desk, desk.View) {
	t.Helper()
	d := w.desk(t)
	view, err := d.Register(context.Background(), models.Registration{
		Email:    email,
		Password: password,
		FullName: "Manager " + email,
	})
	require.NoError(t, err)
	require.True(t, view.Authenticated)
	require.True(t, view.TeamLoaded)
	require.True(t, view.MarketLoaded)
	return d, view
}

func findOffer(offers []desk.OfferRow, playerID int64) (desk.OfferRow, bool) {
	for _, o := range offers {
		if o.Listing.Player.ID == playerID {
			return o, true
		}
	}
	return desk.OfferRow{}, false
}

func TestLoginLoadsSortedRoster(t *testing.T) {
	w := newWorld(t)
	registered, _ := w.manager(t, "a@example.com")
	require.NoError(t, registered.Logout(context.Background()))

	d := w.desk(t)
	view, err := d.Login(context.Background(), "a@example.com", password)
	require.NoError(t, err)

	require.True(t, view.Authenticated)
	require.NotNil(t, view.Team)
	require.Len(t, view.Rows, 20)

	last := -1
	for _, row := range view.Rows {
		rank := row.Player.Position.Rank()
		assert.GreaterOrEqual(t, rank, last, "players sorted by position")
		last = rank
		assert.Equal(t, models.PlayerStatusActive, row.Status)
	}
}

func TestLoginRejected(t *testing.T) {
	w := newWorld(t)
	w.manager(t, "wrong@example.com")

	d := w.desk(t)
	view, err := d.Login(context.Background(), "wrong@example.com", "not-the-password")
	require.Error(t, err)
	assert.True(t, failures.IsValidation(err))
	assert.Equal(t, "Incorrect email/password combination", err.(*failures.Error).Message)
	assert.False(t, view.Authenticated)
}

func TestListPlayer(t *testing.T) {
	w := newWorld(t)
	d, view := w.manager(t, "b@example.com")
	playerX := view.Rows[0].Player.ID

	view, err := d.List(context.Background(), playerX, "1000000")
	require.NoError(t, err)

	offer, ok := findOffer(view.Offers, playerX)
	require.True(t, ok)
	assert.Equal(t, "1000000", offer.Listing.AskPrice)
	assert.True(t, offer.Own)
	assert.Equal(t, models.PlayerStatusOnTransferList, d.StatusOf(playerX))
	assert.Equal(t, models.PlayerStatusOnTransferList, view.Rows[0].Status)
	require.NotNil(t, view.Rows[0].Listing)

	_, err = d.List(context.Background(), playerX, "1000000")
	require.Error(t, err, "duplicate listing")
	assert.True(t, failures.IsValidation(err))

	_, err = d.List(context.Background(), view.Rows[1].Player.ID, "-5")
	require.Error(t, err)
	assert.Equal(t, transfer.InvalidAskPriceMessage, err.(*failures.Error).Message)
}

func TestRepriceAndUnlist(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	d, view := w.manager(t, "r@example.com")
	playerX := view.Rows[5].Player.ID

	view, err := d.List(ctx, playerX, "1000000")
	require.NoError(t, err)
	offer, _ := findOffer(view.Offers, playerX)

	view, err = d.Reprice(ctx, offer.Listing.ID, "750000.25")
	require.NoError(t, err)
	offer, ok := findOffer(view.Offers, playerX)
	require.True(t, ok)
	assert.Equal(t, "750000.25", offer.Listing.AskPrice)

	view, err = d.Unlist(ctx, offer.Listing.ID)
	require.NoError(t, err)
	_, ok = findOffer(view.Offers, playerX)
	assert.False(t, ok)
	assert.Equal(t, models.PlayerStatusActive, d.StatusOf(playerX))
	assert.Len(t, view.Rows, 20)
}

func TestPurchase(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	seller, sellerView := w.manager(t, "seller@example.com")
	buyer, _ := w.manager(t, "buyer@example.com")
	playerX := sellerView.Rows[0].Player.ID

	_, err := seller.List(ctx, playerX, "1000000")
	require.NoError(t, err)

	view, err := buyer.RefreshMarket(ctx)
	require.NoError(t, err)
	offer, ok := findOffer(view.Offers, playerX)
	require.True(t, ok)
	assert.False(t, offer.Own)

	view, err = buyer.Buy(ctx, offer.Listing.ID)
	require.NoError(t, err)
	_, ok = findOffer(view.Offers, playerX)
	assert.False(t, ok, "listing removed from the marketplace")
	assert.True(t, view.Team.HasPlayer(playerX))
	assert.Equal(t, "4000000", view.Team.Budget)

	view, err = seller.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, view.Team.HasPlayer(playerX))
	assert.Len(t, view.Rows, 19)
	assert.Equal(t, "6000000", view.Team.Budget)
}

func TestListingOwnership(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	seller, sellerView := w.manager(t, "owner@example.com")
	other, _ := w.manager(t, "other@example.com")
	playerX := sellerView.Rows[0].Player.ID

	view, err := seller.List(ctx, playerX, "1000000")
	require.NoError(t, err)
	own, _ := findOffer(view.Offers, playerX)

	_, err = seller.Buy(ctx, own.Listing.ID)
	require.Error(t, err)
	assert.True(t, failures.IsValidation(err))
	assert.Equal(t, transfer.OwnListingMessage, err.(*failures.Error).Message)

	view, err = other.RefreshMarket(ctx)
	require.NoError(t, err)
	offer, ok := findOffer(view.Offers, playerX)
	require.True(t, ok)
	require.False(t, offer.Own)

	_, err = other.Unlist(ctx, offer.Listing.ID)
	require.Error(t, err)
	assert.Equal(t, transfer.NotYourListingMessage, err.(*failures.Error).Message)

	view, err = other.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, view.Team.HasPlayer(playerX), "refused removal must not buy the player")
	assert.Equal(t, "5000000", view.Team.Budget)
	_, ok = findOffer(view.Offers, playerX)
	assert.True(t, ok, "listing untouched")
}

func TestPurchaseRaceLoser(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	seller, sellerView := w.manager(t, "s2@example.com")
	first, _ := w.manager(t, "first@example.com")
	second, _ := w.manager(t, "second@example.com")
	playerX := sellerView.Rows[2].Player.ID

	_, err := seller.List(ctx, playerX, "500000")
	require.NoError(t, err)

	firstView, err := first.RefreshMarket(ctx)
	require.NoError(t, err)
	secondView, err := second.RefreshMarket(ctx)
	require.NoError(t, err)
	offer, _ := findOffer(firstView.Offers, playerX)
	_, stillListed := findOffer(secondView.Offers, playerX)
	require.True(t, stillListed)

	_, err = first.Buy(ctx, offer.Listing.ID)
	require.NoError(t, err)

	_, err = second.Buy(ctx, offer.Listing.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, transfer.ErrListingGone))
	assert.Equal(t, "failed to buy player, please refresh the transfer market", err.(*failures.Error).Message)
	assert.True(t, second.View().Authenticated)
}

func TestEditValidationFailureKeepsDraft(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	d, view := w.manager(t, "d@example.com")
	player := view.Rows[4].Player

	require.NoError(t, d.StartPlayerEdit(player.ID))
	assert.ErrorIs(t, d.StartTeamEdit(), editing.ErrSlotBusy)
	for _, row := range d.View().Rows {
		assert.Equal(t, row.Player.ID == player.ID, row.Editing, "only the edited row is marked")
	}

	require.NoError(t, d.EditPlayer(func(f *editing.PlayerFields) { f.Age = 10 }))

	view, err := d.SaveEdit(ctx)
	require.Error(t, err)
	assert.True(t, failures.IsValidation(err))

	assert.Equal(t, editing.StateEditing, view.Edit.State)
	require.NotNil(t, view.Edit.Draft)
	assert.Equal(t, 10, view.Edit.Draft.Player.Age)
	assert.Equal(t, err, view.Edit.Err)

	stored, ok := view.Team.Player(player.ID)
	require.True(t, ok)
	assert.Equal(t, player.Age, stored.Age)

	require.NoError(t, d.EditPlayer(func(f *editing.PlayerFields) { f.Age = 33 }))
	view, err = d.SaveEdit(ctx)
	require.NoError(t, err)
	assert.Equal(t, editing.StateViewing, view.Edit.State)
	stored, _ = view.Team.Player(player.ID)
	assert.Equal(t, 33, stored.Age)
}

func TestSortRoster(t *testing.T) {
	w := newWorld(t)
	d, view := w.manager(t, "sort@example.com")
	assert.Equal(t, models.DefaultRosterOrder, view.Order)

	view, err := d.SortRoster(models.SortKeyAge, models.SortDesc)
	require.NoError(t, err)
	require.Len(t, view.Rows, 20)
	for i := 1; i < len(view.Rows); i++ {
		assert.GreaterOrEqual(t, view.Rows[i-1].Player.Age, view.Rows[i].Player.Age)
	}
	assert.Equal(t, view.Rows[0].Player.ID, view.Team.Players[0].ID, "team players follow the same order")

	view, err = d.ToggleSort(models.SortKeyAge)
	require.NoError(t, err)
	assert.Equal(t, models.RosterOrder{Key: models.SortKeyAge, Direction: models.SortAsc}, view.Order)
	for i := 1; i < len(view.Rows); i++ {
		assert.LessOrEqual(t, view.Rows[i-1].Player.Age, view.Rows[i].Player.Age)
	}

	_, err = d.SortRoster("salary", models.SortAsc)
	assert.ErrorIs(t, err, desk.ErrInvalidSort)
	_, err = d.SortRoster(models.SortKeyAge, "sideways")
	assert.ErrorIs(t, err, desk.ErrInvalidSort)

	require.NoError(t, d.Logout(context.Background()))
	assert.Equal(t, models.DefaultRosterOrder, d.View().Order, "order resets with the session")
}

func TestEditTeam(t *testing.T) {
	w := newWorld(t)
	d, _ := w.manager(t, "team@example.com")

	require.NoError(t, d.StartTeamEdit())
	require.NoError(t, d.EditTeam(func(f *editing.TeamFields) { f.Name = "Harbour City" }))

	view, err := d.SaveEdit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Harbour City", view.Team.Name)
	assert.Equal(t, editing.StateViewing, view.Edit.State)
}

func TestSessionExpiry(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	d, view := w.manager(t, "e@example.com")
	require.NoError(t, d.StartPlayerEdit(view.Rows[0].Player.ID))

	w.clock.Advance(2 * time.Hour)

	view, err := d.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, failures.IsAuthentication(err))
	assert.Equal(t, failures.SessionExpiredMessage, err.(*failures.Error).Message)

	assert.False(t, view.Authenticated)
	assert.Nil(t, view.Team)
	assert.Empty(t, view.Offers)
	assert.Equal(t, "Session expired. Please login again.", view.Notice)
	assert.Equal(t, editing.StateViewing, view.Edit.State)

	_, err = d.RefreshMarket(ctx)
	assert.ErrorIs(t, err, desk.ErrSignedOut)

	view, err = d.Login(ctx, "e@example.com", password)
	require.NoError(t, err)
	assert.True(t, view.Authenticated)
	assert.Empty(t, view.Notice)
}

func TestGateWithoutSession(t *testing.T) {
	w := newWorld(t)
	d := w.desk(t)
	ctx := context.Background()

	_, err := d.Refresh(ctx)
	assert.ErrorIs(t, err, desk.ErrSignedOut)
	_, err = d.Buy(ctx, 1)
	assert.ErrorIs(t, err, desk.ErrSignedOut)
	assert.ErrorIs(t, d.StartTeamEdit(), desk.ErrSignedOut)
	assert.False(t, d.View().Authenticated)
}

func TestStartRestoresSession(t *testing.T) {
	w := newWorld(t)
	storage := session.NewMemoryStorage()
	ctx := context.Background()

	first := w.deskWith(t, storage)
	_, err := first.Register(ctx, models.Registration{Email: "restore@example.com", Password: password, FullName: "R"})
	require.NoError(t, err)

	second := w.deskWith(t, storage)
	require.NoError(t, second.Start(ctx))
	view, err := second.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, view.Authenticated)
	assert.Len(t, view.Rows, 20)
}

func TestAccount(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	d, _ := w.manager(t, "acct@example.com")

	me, err := d.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acct@example.com", me.Email)

	name := "Renamed Manager"
	me, err = d.UpdateMe(ctx, models.UserUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, me.FullName)

	require.NoError(t, d.DeleteAccount(ctx))
	view := d.View()
	assert.False(t, view.Authenticated)
	assert.Empty(t, view.Notice)

	_, err = w.desk(t).Login(ctx, "acct@example.com", password)
	assert.True(t, failures.IsValidation(err))
}
