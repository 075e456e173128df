package models

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcdev12/soccermanager/go/internal/money"
)

// SortKey names a roster column the players can be ordered by
type SortKey string

const (
	SortKeyPosition    SortKey = "position"
	SortKeyFirstName   SortKey = "firstName"
	SortKeyLastName    SortKey = "lastName"
	SortKeyCountry     SortKey = "country"
	SortKeyAge         SortKey = "age"
	SortKeyMarketValue SortKey = "marketValue"
)

// SortKeys lists every sortable column
var SortKeys = []SortKey{
	SortKeyPosition,
	SortKeyFirstName,
	SortKeyLastName,
	SortKeyCountry,
	SortKeyAge,
	SortKeyMarketValue,
}

// Valid reports whether k is a known column
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// RosterOrder is the column and direction the roster is shown in
type RosterOrder struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultRosterOrder is goalkeepers first
var DefaultRosterOrder = RosterOrder{Key: SortKeyPosition, Direction: SortAsc}

// Toggle selects key: the current column flips direction, any other column starts ascending
func (o RosterOrder) Toggle(key SortKey) RosterOrder {
	if o.Key == key && o.Direction == SortAsc {
		return RosterOrder{Key: key, Direction: SortDesc}
	}
	return RosterOrder{Key: key, Direction: SortAsc}
}

// SortPlayers orders players by o. The sort is stable, so players that tie
// keep their relative order in both directions.
func SortPlayers(players []Player, o RosterOrder) []Player {
	compare := comparator(o.Key)
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b Player) int {
		if o.Direction == SortDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted
}

// SortByPosition orders players goalkeeper first, attacker last.
// Players sharing a position keep their relative order.
func SortByPosition(players []Player) []Player {
	return SortPlayers(players, DefaultRosterOrder)
}

func comparator(key SortKey) func(a, b Player) int {
	switch key {
	case SortKeyFirstName:
		return func(a, b Player) int { return strings.Compare(a.FirstName, b.FirstName) }
	case SortKeyLastName:
		return func(a, b Player) int { return strings.Compare(a.LastName, b.LastName) }
	case SortKeyCountry:
		return func(a, b Player) int { return strings.Compare(a.Country, b.Country) }
	case SortKeyAge:
		return func(a, b Player) int { return cmp.Compare(a.Age, b.Age) }
	case SortKeyMarketValue:
		return func(a, b Player) int { return money.Compare(a.MarketValue, b.MarketValue) }
	default:
		return func(a, b Player) int { return positionRank(a.Position) - positionRank(b.Position) }
	}
}

// unknown positions sink to the bottom
func positionRank(p Position) int {
	if r := p.Rank(); r >= 0 {
		return r
	}
	return len(Positions)
}
