package repository

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/pkg"
)

const maxIDAttempts = 16

var ErrIDSpaceExhausted = errors.New("could not generate a unique game id")

// SessionRegistry holds every live session. Structural changes (create, join,
// remove) hold the registry write lock; the session's own mutex is always taken
// after the registry lock, never before.
type SessionRegistry struct {
	mu sync.RWMutex

	sessions     map[string]*entity.Session
	participants map[string]string // identity -> session id

	generateID func() string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions:     make(map[string]*entity.Session),
		participants: make(map[string]string),
		generateID:   pkg.GenerateGameID,
	}
}

// Create opens a new session with the identity in slot X.
func (that *SessionRegistry) Create(identity string) (entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.participants[identity]; ok {
		return entity.Snapshot{}, apperror.ErrAlreadyInGame
	}

	id, err := that.uniqueID()
	if err != nil {
		return entity.Snapshot{}, err
	}

	session := entity.NewSession(id, identity)
	that.sessions[id] = session
	that.participants[identity] = id

	return session.Snapshot(), nil
}

func (that *SessionRegistry) Get(id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

// Join fills slot O. The duplicate check and the slot fill happen under one write lock.
func (that *SessionRegistry) Join(id, identity string) (entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.participants[identity]; ok {
		return entity.Snapshot{}, apperror.ErrAlreadyInGame
	}

	session, ok := that.sessions[id]
	if !ok {
		return entity.Snapshot{}, fmt.Errorf("%w: game id %s", apperror.ErrSessionNotFound, id)
	}

	snapshot, err := session.Join(identity)
	if err != nil {
		return entity.Snapshot{}, err
	}

	that.participants[identity] = id

	return snapshot, nil
}

// Leave tears the whole session down when one of its participants walks away.
func (that *SessionRegistry) Leave(id, identity string) (entity.LeaveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return entity.LeaveResult{}, fmt.Errorf("%w: game id %s", apperror.ErrSessionNotFound, id)
	}

	result, ok := session.Leave(identity)
	if !ok {
		return entity.LeaveResult{}, apperror.ErrNotParticipant
	}

	that.unregister(id, identity, result.Remaining)

	return result, nil
}

// Disconnect removes whatever session the identity takes part in.
// The second value is false when the identity was not in a session.
func (that *SessionRegistry) Disconnect(identity string) (entity.LeaveResult, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id, ok := that.participants[identity]
	if !ok {
		return entity.LeaveResult{}, false
	}

	session, ok := that.sessions[id]
	if !ok {
		delete(that.participants, identity)
		return entity.LeaveResult{}, false
	}

	result, ok := session.Leave(identity)
	if !ok {
		delete(that.participants, identity)
		return entity.LeaveResult{}, false
	}

	that.unregister(id, identity, result.Remaining)

	return result, true
}

// Remove closes and drops a session regardless of its participants.
func (that *SessionRegistry) Remove(id string) (entity.Snapshot, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return entity.Snapshot{}, false
	}

	snapshot := session.Close()
	that.unregister(id, snapshot.Participants()...)

	return snapshot, true
}

// ListOpen returns the sorted ids of sessions waiting for a second participant.
func (that *SessionRegistry) ListOpen() []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := make([]string, 0, len(that.sessions))
	for id, session := range that.sessions {
		if session.IsOpen() {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids
}

// SessionOf returns the id of the session the identity takes part in.
func (that *SessionRegistry) SessionOf(identity string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	id, ok := that.participants[identity]

	return id, ok
}

func (that *SessionRegistry) IsParticipantElsewhere(identity string) bool {
	_, ok := that.SessionOf(identity)

	return ok
}

func (that *SessionRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// uniqueID must be called with mu held.
func (that *SessionRegistry) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := that.generateID()
		if _, exists := that.sessions[id]; !exists {
			return id, nil
		}
	}

	return "", ErrIDSpaceExhausted
}

// unregister must be called with mu held.
func (that *SessionRegistry) unregister(id string, identities ...string) {
	delete(that.sessions, id)

	for _, identity := range identities {
		if identity == "" {
			continue
		}

		if that.participants[identity] == id {
			delete(that.participants, identity)
		}
	}
}
