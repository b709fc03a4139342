// internal/store/memory.go
//
// In-memory registry of live game sessions.
// Games are scoreboard state for a court, not records; nothing here
// survives a restart. Finished games are persisted by the history package.
//
// Characteristics:
//   - Sessions keyed by ID in a map guarded by an RWMutex.
//   - Remembers the player assignments of the most recent game so the next
//     setup can start from them.
//   - Delete closes the session (timers stopped, watchers disconnected).
//   - Prune does the same for every session a caller-supplied policy marks
//     expired, so finished and abandoned games do not pile up.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/session"
)

// ErrNotFound is returned for an unknown game ID.
var ErrNotFound = errors.New("store: game not found")

// Store keeps live sessions.
type Store interface {
	// Save registers s and remembers its players as the last used.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete closes and forgets a session.
	Delete(ctx context.Context, id string) error

	// Prune closes and forgets every session for which expired is true and
	// returns their IDs.
	Prune(ctx context.Context, expired func(*session.Session) bool) []string

	// LastPlayers returns the assignments of the most recently saved game.
	LastPlayers(ctx context.Context) (game.Players, game.Mode, bool)
}

type memory struct {
	mu       sync.RWMutex                // guards fields below
	sessions map[string]*session.Session // keyed by Session.ID
	last     *game.Settings
}

// NewMemoryStore constructs an empty Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	settings := s.Settings()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.last = &settings
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *memory) Prune(ctx context.Context, expired func(*session.Session) bool) []string {
	m.mu.Lock()
	var gone []*session.Session
	for id, s := range m.sessions {
		if expired(s) {
			gone = append(gone, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	// Close outside the registry lock; it takes each session's own lock.
	ids := make([]string, 0, len(gone))
	for _, s := range gone {
		s.Close()
		ids = append(ids, s.ID)
	}
	return ids
}

func (m *memory) LastPlayers(ctx context.Context) (game.Players, game.Mode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return game.Players{}, "", false
	}
	return m.last.Players, m.last.Mode, true
}
