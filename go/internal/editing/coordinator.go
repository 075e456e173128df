// Package editing coordinates the single application-wide edit slot.
// At most one draft, for the team or for one player, exists at a time.
package editing

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/roster"
)

var (
	// ErrSlotBusy is returned when an edit starts while another draft is open
	ErrSlotBusy = errors.New("another edit is already in progress")
	// ErrNoDraft is returned by operations that need an open draft
	ErrNoDraft = errors.New("no edit in progress")
	// ErrWrongTarget is returned when a field edit does not match the draft kind
	ErrWrongTarget = errors.New("draft edits a different target")
	// ErrSaving is returned while a save of the current draft is in flight
	ErrSaving = errors.New("draft is being saved")
)

// RosterWriter defines what the coordinator needs to persist a draft
type RosterWriter interface {
	UpdateTeam(ctx context.Context, teamID int64, update models.TeamUpdate) error
	UpdatePlayer(ctx context.Context, teamID, playerID int64, update models.PlayerUpdate) error
}

// State of the edit slot
type State string

const (
	StateViewing State = "VIEWING"
	StateEditing State = "EDITING"
)

// Coordinator is the Viewing/Editing state machine of the edit slot
type Coordinator struct {
	writer RosterWriter

	mu     sync.Mutex
	draft  *Draft
	saving bool
	err    error
}

// NewCoordinator creates a coordinator in the Viewing state
func NewCoordinator(writer RosterWriter) *Coordinator {
	return &Coordinator{writer: writer}
}

// StartTeamEdit opens a draft initialised from the team's current values
func (c *Coordinator) StartTeamEdit(team models.Team) error {
	return c.start(newTeamDraft(team))
}

// StartPlayerEdit opens a draft initialised from the player's current values
func (c *Coordinator) StartPlayerEdit(teamID int64, player models.Player) error {
	return c.start(newPlayerDraft(teamID, player))
}

func (c *Coordinator) start(d *Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft != nil {
		return ErrSlotBusy
	}
	c.draft = d
	c.err = nil
	log.Debug().Str("kind", string(d.Kind)).Int64("target_id", d.TargetID).Msg("edit started")
	return nil
}

// EditTeam changes fields of an open team draft
func (c *Coordinator) EditTeam(fn func(*TeamFields)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editableLocked(TargetTeam); err != nil {
		return err
	}
	fn(c.draft.Team)
	return nil
}

// EditPlayer changes fields of an open player draft
func (c *Coordinator) EditPlayer(fn func(*PlayerFields)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editableLocked(TargetPlayer); err != nil {
		return err
	}
	fn(c.draft.Player)
	return nil
}

func (c *Coordinator) editableLocked(kind TargetKind) error {
	switch {
	case c.draft == nil:
		return ErrNoDraft
	case c.saving:
		return ErrSaving
	case c.draft.Kind != kind:
		return ErrWrongTarget
	}
	return nil
}

// Save writes the draft through the roster. On success the slot returns to
// Viewing; on failure the draft stays open and unchanged and the error is
// kept for inline display.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return ErrNoDraft
	}
	if c.saving {
		c.mu.Unlock()
		return ErrSaving
	}
	c.saving = true
	c.err = nil
	draft := c.draft
	snapshot := draft.clone()
	c.mu.Unlock()

	var err error
	switch snapshot.Kind {
	case TargetTeam:
		err = c.writer.UpdateTeam(ctx, snapshot.TeamID, snapshot.teamUpdate())
	case TargetPlayer:
		err = c.writer.UpdatePlayer(ctx, snapshot.TeamID, snapshot.TargetID, snapshot.playerUpdate())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// the slot was cancelled or reset while the write was in flight
	if c.draft != draft {
		return err
	}
	c.saving = false

	if err != nil && !errors.Is(err, roster.ErrStaleAfterWrite) {
		c.err = err
		log.Debug().Err(err).Str("kind", string(snapshot.Kind)).Int64("target_id", snapshot.TargetID).Msg("save failed, draft kept")
		return err
	}

	// the write landed; a failed reload is reported but does not reopen the draft
	c.draft = nil
	c.err = err
	log.Debug().Str("kind", string(snapshot.Kind)).Int64("target_id", snapshot.TargetID).Msg("edit saved")
	return err
}

// Cancel discards the draft regardless of its contents
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
	c.saving = false
	c.err = nil
}

// State reports Viewing or Editing
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return StateViewing
	}
	return StateEditing
}

// Draft returns a copy of the open draft
func (c *Coordinator) Draft() (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return Draft{}, false
	}
	return c.draft.clone(), true
}

// IsEditing reports whether the open draft targets kind/id
func (c *Coordinator) IsEditing(kind TargetKind, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft != nil && c.draft.Kind == kind && c.draft.TargetID == id
}

// Saving reports whether a save is in flight
func (c *Coordinator) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Err returns the error of the last save, shown next to the form
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
