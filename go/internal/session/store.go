// Package session owns the authenticated identity triple and its persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/clients"
	"github.com/mcdev12/soccermanager/go/internal/models"
)

var (
	// ErrCorrupt marks persisted state that violates the session invariant
	ErrCorrupt = errors.New("corrupt session state")
	// ErrInvalidSession is returned when Set receives an incomplete triple
	ErrInvalidSession = errors.New("session requires token, team id and user id")
)

// Reason explains why the session changed
type Reason string

const (
	ReasonRestored Reason = "restored"
	ReasonLogin    Reason = "login"
	ReasonLogout   Reason = "logout"
	ReasonExpired  Reason = "expired"
	ReasonCorrupt  Reason = "corrupt"
	ReasonDeleted  Reason = "account_deleted"
)

// Change is published to subscribers after every transition
type Change struct {
	Session       models.Session
	Authenticated bool
	Reason        Reason
}

// Store holds the session in memory, backed by Storage
type Store struct {
	storage Storage

	// writeMu serialises persistence so storage and memory change in the same order
	writeMu sync.Mutex

	mu        sync.RWMutex
	current   models.Session
	listeners map[int]func(Change)
	nextID    int
}

var _ clients.Credentials = (*Store)(nil)

// NewStore creates an empty store; call Restore to reload persisted state
func NewStore(storage Storage) *Store {
	return &Store{
		storage:   storage,
		listeners: make(map[int]func(Change)),
	}
}

// Restore reloads the session from storage. State that violates the session
// invariant is discarded entirely.
func (s *Store) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	values, err := s.storage.GetAll(ctx, Keys)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return s.discardCorrupt(ctx, err)
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	if len(values) == 0 {
		return nil
	}

	restored, err := decode(values)
	if err != nil {
		return s.discardCorrupt(ctx, err)
	}

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()

	log.Info().Int64("team_id", restored.TeamID).Int64("user_id", restored.UserID).Msg("session restored")
	s.publish(Change{Session: restored, Authenticated: true, Reason: ReasonRestored})
	return nil
}

// Set persists and publishes a new session. Readers observe either the old or
// the new triple, never a mix.
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.SetAll(ctx, encode(sess)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	log.Info().Int64("team_id", sess.TeamID).Int64("user_id", sess.UserID).Msg("session established")
	s.publish(Change{Session: sess, Authenticated: true, Reason: ReasonLogin})
	return nil
}

// Clear removes all persisted keys and resets memory (logout)
func (s *Store) Clear(ctx context.Context) error {
	return s.clear(ctx, ReasonLogout, "")
}

// ClearDeleted ends the session after the account was deleted
func (s *Store) ClearDeleted(ctx context.Context) error {
	return s.clear(ctx, ReasonDeleted, "")
}

// BearerToken implements clients.Credentials
func (s *Store) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Unauthorized implements clients.Credentials. A 401 for a token that has
// since been replaced does not end the newer session.
func (s *Store) Unauthorized(ctx context.Context, token string) {
	if err := s.clear(context.WithoutCancel(ctx), ReasonExpired, token); err != nil {
		log.Error().Err(err).Msg("failed to clear expired session")
	}
}

// Current returns the session and whether one is established
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current.Valid()
}

// Authenticated reports whether a session is established
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Subscribe registers fn for every change; the returned func unsubscribes.
// fn runs synchronously and must not call Set or Clear.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) clear(ctx context.Context, reason Reason, onlyToken string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if onlyToken != "" && s.current.Token != onlyToken {
		s.mu.Unlock()
		return nil
	}
	was := s.current
	s.current = models.Session{}
	s.mu.Unlock()

	err := s.storage.Delete(ctx, Keys)
	if err != nil {
		err = fmt.Errorf("failed to delete session: %w", err)
	}

	if was.Valid() {
		log.Info().Str("reason", string(reason)).Int64("team_id", was.TeamID).Msg("session cleared")
		s.publish(Change{Reason: reason})
	}
	return err
}

func (s *Store) discardCorrupt(ctx context.Context, cause error) error {
	log.Warn().Err(cause).Msg("discarding corrupt session")
	s.mu.Lock()
	s.current = models.Session{}
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, Keys); err != nil {
		return fmt.Errorf("failed to delete corrupt session: %w", err)
	}
	s.publish(Change{Reason: ReasonCorrupt})
	return nil
}

func (s *Store) publish(change Change) {
	s.mu.RLock()
	listeners := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

func encode(sess models.Session) map[string]string {
	return map[string]string{
		KeyToken:  sess.Token,
		KeyTeamID: strconv.FormatInt(sess.TeamID, 10),
		KeyUserID: strconv.FormatInt(sess.UserID, 10),
	}
}

// decode requires all three keys; anything less is corrupt
func decode(values map[string]string) (models.Session, error) {
	token := values[KeyToken]
	teamRaw, hasTeam := values[KeyTeamID]
	userRaw, hasUser := values[KeyUserID]

	if token == "" || !hasTeam || !hasUser {
		return models.Session{}, fmt.Errorf("%w: incomplete triple", ErrCorrupt)
	}

	teamID, err := strconv.ParseInt(teamRaw, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: team id: %v", ErrCorrupt, err)
	}
	userID, err := strconv.ParseInt(userRaw, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: user id: %v", ErrCorrupt, err)
	}

	sess := models.Session{Token: token, TeamID: teamID, UserID: userID}
	if !sess.Valid() {
		return models.Session{}, fmt.Errorf("%w: zero identifiers", ErrCorrupt)
	}
	return sess, nil
}
