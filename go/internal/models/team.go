package models

// Team represents the single team owned by an authenticated user.
// MarketValue and Budget are server-computed decimal strings.
type Team struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	MarketValue string   `json:"marketValue"`
	Budget      string   `json:"budget"`
	Players     []Player `json:"players"`
}

// Clone returns a deep copy so cached snapshots are never shared
func (t Team) Clone() Team {
	c := t
	if t.Players != nil {
		c.Players = make([]Player, len(t.Players))
		copy(c.Players, t.Players)
	}
	return c
}

// Player looks up a player on the team by id
func (t Team) Player(id int64) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// HasPlayer reports whether the team owns the player
func (t Team) HasPlayer(id int64) bool {
	_, ok := t.Player(id)
	return ok
}

// TeamUpdate is a partial team write. Players are never written through the team.
type TeamUpdate struct {
	Name    *string `json:"name,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Empty reports whether the update carries no fields
func (u TeamUpdate) Empty() bool {
	return u.Name == nil && u.Country == nil
}
