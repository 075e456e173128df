package desk

import (
	"github.com/mcdev12/soccermanager/go/internal/editing"
	"github.com/mcdev12/soccermanager/go/internal/marketplace"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/status"
)

// View is everything a front end needs to render one frame
type View struct {
	Authenticated bool
	Session       models.Session
	// Notice is shown on the login screen, e.g. after the session expired
	Notice string

	Team       *models.Team
	Rows       []Row
	TeamLoaded bool
	Order      models.RosterOrder

	Offers       []OfferRow
	MarketLoaded bool

	Edit EditView
}

// Row is one roster line with its derived status
type Row struct {
	status.Row
	// Busy is set while a transfer request for the player is in flight
	Busy bool
	// Editing is set when the open draft edits this player
	Editing bool
}

// OfferRow is one marketplace line as seen by the viewer
type OfferRow struct {
	marketplace.Offer
	// Busy is set while the listing is being bought, repriced or withdrawn
	Busy bool
}

// EditView describes the edit slot
type EditView struct {
	State  editing.State
	Draft  *editing.Draft
	Saving bool
	// Err is the last save failure, shown inline next to the form
	Err error
}

// Busy reports whether a transfer request for the player is in flight
func (d *Desk) Busy(playerID int64) bool {
	return d.transfers.Busy(playerID)
}

// ListingBusy reports whether a request against the listing is in flight
func (d *Desk) ListingBusy(listingID int64) bool {
	return d.transfers.ListingBusy(listingID)
}

// View assembles the current state from the caches. Player status is derived
// here on every call and never stored.
func (d *Desk) View() View {
	d.mu.Lock()
	notice, order := d.notice, d.order
	d.mu.Unlock()

	sess, ok := d.store.Current()
	if !ok {
		return View{Notice: notice, Order: order, Edit: EditView{State: editing.StateViewing}}
	}

	v := View{
		Authenticated: true,
		Session:       sess,
		Order:         order,
		Edit: EditView{
			State:  d.editor.State(),
			Saving: d.editor.Saving(),
			Err:    d.editor.Err(),
		},
	}
	if draft, ok := d.editor.Draft(); ok {
		v.Edit.Draft = &draft
	}

	market, marketLoaded := d.market.Snapshot()
	v.MarketLoaded = marketLoaded

	var viewer models.Team
	if team, ok := d.roster.Snapshot(); ok {
		team.Players = models.SortPlayers(team.Players, order)
		v.Team = &team
		v.TeamLoaded = true
		viewer = team
		for _, r := range status.Resolve(team, market) {
			v.Rows = append(v.Rows, Row{
				Row:     r,
				Busy:    d.transfers.Busy(r.Player.ID),
				Editing: d.editor.IsEditing(editing.TargetPlayer, r.Player.ID),
			})
		}
	}
	if marketLoaded {
		for _, o := range market.Offers(viewer) {
			v.Offers = append(v.Offers, OfferRow{Offer: o, Busy: d.transfers.ListingBusy(o.Listing.ID)})
		}
	}
	return v
}

// StatusOf returns the derived status of one player against the cached marketplace
func (d *Desk) StatusOf(playerID int64) models.PlayerStatus {
	market, _ := d.market.Snapshot()
	return status.Of(playerID, market)
}
