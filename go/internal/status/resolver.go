// Package status derives each player's listing status from the roster and the marketplace.
// Nothing here is cached: callers recompute whenever either snapshot changes.
package status

import (
	"github.com/mcdev12/soccermanager/go/internal/models"
)

// ListingIndex is the part of a marketplace snapshot the resolver reads
type ListingIndex interface {
	ActiveListingFor(playerID int64) (models.TransferListing, bool)
}

// Of returns ON_TRANSFER_LIST iff the marketplace holds a non-completed listing for the player
func Of(playerID int64, market ListingIndex) models.PlayerStatus {
	if market == nil {
		return models.PlayerStatusActive
	}
	if _, ok := market.ActiveListingFor(playerID); ok {
		return models.PlayerStatusOnTransferList
	}
	return models.PlayerStatusActive
}

// Row is a roster player together with its derived status
type Row struct {
	Player  models.Player
	Status  models.PlayerStatus
	Listing *models.TransferListing
}

// Resolve combines a roster snapshot with a marketplace snapshot, keeping roster order
func Resolve(roster models.Team, market ListingIndex) []Row {
	rows := make([]Row, len(roster.Players))
	for i, p := range roster.Players {
		rows[i] = Row{Player: p, Status: models.PlayerStatusActive}
		if market == nil {
			continue
		}
		if l, ok := market.ActiveListingFor(p.ID); ok {
			rows[i].Status = models.PlayerStatusOnTransferList
			rows[i].Listing = &l
		}
	}
	return rows
}
