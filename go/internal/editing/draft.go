package editing

import "github.com/mcdev12/soccermanager/go/internal/models"

// TargetKind names what a draft edits
type TargetKind string

const (
	TargetTeam   TargetKind = "TEAM"
	TargetPlayer TargetKind = "PLAYER"
)

// TeamFields are the editable team fields
type TeamFields struct {
	Name    string
	Country string
}

// PlayerFields are the editable player fields
type PlayerFields struct {
	FirstName string
	LastName  string
	Country   string
	Age       int
	Position  models.Position
}

// Draft is the unsaved edit buffer. Exactly one of Team and Player is set.
type Draft struct {
	Kind     TargetKind
	TeamID   int64
	TargetID int64
	Team     *TeamFields
	Player   *PlayerFields

	// values copied when the edit started, used to send only changed fields
	origTeam   TeamFields
	origPlayer PlayerFields
}

func newTeamDraft(team models.Team) *Draft {
	fields := TeamFields{Name: team.Name, Country: team.Country}
	return &Draft{
		Kind:     TargetTeam,
		TeamID:   team.ID,
		TargetID: team.ID,
		Team:     &fields,
		origTeam: fields,
	}
}

func newPlayerDraft(teamID int64, player models.Player) *Draft {
	fields := PlayerFields{
		FirstName: player.FirstName,
		LastName:  player.LastName,
		Country:   player.Country,
		Age:       player.Age,
		Position:  player.Position,
	}
	return &Draft{
		Kind:       TargetPlayer,
		TeamID:     teamID,
		TargetID:   player.ID,
		Player:     &fields,
		origPlayer: fields,
	}
}

// clone copies the draft so callers never hold the coordinator's buffer
func (d *Draft) clone() Draft {
	c := *d
	if d.Team != nil {
		t := *d.Team
		c.Team = &t
	}
	if d.Player != nil {
		p := *d.Player
		c.Player = &p
	}
	return c
}

// teamUpdate carries only the fields that differ from the values at edit start
func (d *Draft) teamUpdate() models.TeamUpdate {
	var u models.TeamUpdate
	if d.Team.Name != d.origTeam.Name {
		name := d.Team.Name
		u.Name = &name
	}
	if d.Team.Country != d.origTeam.Country {
		country := d.Team.Country
		u.Country = &country
	}
	return u
}

func (d *Draft) playerUpdate() models.PlayerUpdate {
	var u models.PlayerUpdate
	cur, orig := *d.Player, d.origPlayer
	if cur.FirstName != orig.FirstName {
		u.FirstName = &cur.FirstName
	}
	if cur.LastName != orig.LastName {
		u.LastName = &cur.LastName
	}
	if cur.Country != orig.Country {
		u.Country = &cur.Country
	}
	if cur.Age != orig.Age {
		u.Age = &cur.Age
	}
	if cur.Position != orig.Position {
		u.Position = &cur.Position
	}
	return u
}
