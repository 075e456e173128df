package models

// Position is the pitch position of a player
type Position string

const (
	PositionGoalkeeper Position = "GOALKEEPER"
	PositionDefender   Position = "DEFENDER"
	PositionMidfielder Position = "MIDFIELDER"
	PositionAttacker   Position = "ATTACKER"
)

// Positions lists every position in roster display order
var Positions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionAttacker,
}

// Valid reports whether p is one of the known positions
func (p Position) Valid() bool {
	return p.Rank() >= 0
}

// Rank returns the display order of the position, -1 when unknown
func (p Position) Rank() int {
	for i, known := range Positions {
		if known == p {
			return i
		}
	}
	return -1
}

// PlayerStatus is derived from the marketplace, never stored on a player
type PlayerStatus string

const (
	PlayerStatusActive         PlayerStatus = "ACTIVE"
	PlayerStatusOnTransferList PlayerStatus = "ON_TRANSFER_LIST"
)

// Player represents a footballer owned by exactly one team
type Player struct {
	ID          int64    `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Country     string   `json:"country"`
	Age         int      `json:"age"`
	Position    Position `json:"position"`
	MarketValue string   `json:"marketValue"` // decimal string
	// Team is the owning team; the server fills it on marketplace listings only
	Team *TeamRef `json:"team,omitempty"`
}

// TeamRef identifies a team without its players
type TeamRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// FullName joins first and last name
func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// PlayerUpdate is a partial player write; nil fields are left untouched by the server
type PlayerUpdate struct {
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Position  *Position `json:"position,omitempty"`
}

// Empty reports whether the update carries no fields
func (u PlayerUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Age == nil && u.Country == nil && u.Position == nil
}
