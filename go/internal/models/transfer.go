package models

// ListingStatus is the lifecycle status of a transfer listing
type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "PENDING"
	ListingStatusCompleted ListingStatus = "COMPLETED"
)

// TransferListing couples a player to an ask price on the marketplace
type TransferListing struct {
	ID       int64         `json:"id"`
	Player   Player        `json:"player"`
	AskPrice string        `json:"askPrice"` // decimal string
	Status   ListingStatus `json:"status,omitempty"`
}

// EffectiveStatus treats a missing status as PENDING
func (l TransferListing) EffectiveStatus() ListingStatus {
	if l.Status == "" {
		return ListingStatusPending
	}
	return l.Status
}

// Active reports whether the listing still offers the player
func (l TransferListing) Active() bool {
	return l.EffectiveStatus() != ListingStatusCompleted
}

// CreateListingRequest is the body of POST /teams/{teamId}/transfers
type CreateListingRequest struct {
	PlayerID int64  `json:"playerId"`
	AskPrice string `json:"askPrice"`
}

// RepriceListingRequest is the body of PATCH /teams/{teamId}/transfers/{listingId}
type RepriceListingRequest struct {
	AskPrice string `json:"askPrice"`
}
