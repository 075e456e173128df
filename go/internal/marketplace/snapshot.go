package marketplace

import (
	"slices"

	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/money"
)

// Snapshot is an immutable view of the global listing collection,
// indexed by listing id and by the player of each active listing.
type Snapshot struct {
	listings []models.TransferListing
	byID     map[int64]int
	byPlayer map[int64]int
}

// NewSnapshot indexes listings; the slice is copied
func NewSnapshot(listings []models.TransferListing) Snapshot {
	s := Snapshot{
		listings: slices.Clone(listings),
		byID:     make(map[int64]int, len(listings)),
		byPlayer: make(map[int64]int, len(listings)),
	}
	for i, l := range s.listings {
		s.byID[l.ID] = i
		if !l.Active() {
			continue
		}
		if _, seen := s.byPlayer[l.Player.ID]; !seen {
			s.byPlayer[l.Player.ID] = i
		}
	}
	return s
}

// Len is the number of listings, active or completed
func (s Snapshot) Len() int {
	return len(s.listings)
}

// Listing looks up a listing by id
func (s Snapshot) Listing(id int64) (models.TransferListing, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.TransferListing{}, false
	}
	return s.listings[i], true
}

// ActiveListingFor returns the non-completed listing for a player, if any
func (s Snapshot) ActiveListingFor(playerID int64) (models.TransferListing, bool) {
	i, ok := s.byPlayer[playerID]
	if !ok {
		return models.TransferListing{}, false
	}
	return s.listings[i], true
}

// Offer is one marketplace row as seen by a particular team
type Offer struct {
	Listing models.TransferListing
	// Own is set when the listed player is on the viewer's roster;
	// own offers can be repriced or withdrawn, the rest can be bought.
	Own bool
}

// Offers returns the active listings cheapest first, flagged against the viewer's roster
func (s Snapshot) Offers(viewer models.Team) []Offer {
	offers := make([]Offer, 0, len(s.byPlayer))
	for _, l := range s.listings {
		if !l.Active() {
			continue
		}
		offers = append(offers, Offer{Listing: l, Own: viewer.HasPlayer(l.Player.ID)})
	}
	slices.SortStableFunc(offers, func(a, b Offer) int {
		return money.Compare(a.Listing.AskPrice, b.Listing.AskPrice)
	})
	return offers
}
