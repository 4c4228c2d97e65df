// internal/store/memory.go
//
// In-memory session store for live puzzle engines.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Map access is guarded by an RWMutex; each Session carries its own mutex
//     so one engine only ever runs one operation at a time.
//   - Idle sessions are removed by Sweep. State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pizza-detective/internal/game"
)

// ErrNotFound is returned by Get for unknown or evicted sessions.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle for longer than idleFor and returns how many.
	Sweep(ctx context.Context, idleFor time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

// Session is one browser's game.
type Session struct {
	ID        string
	Mode      string // "random" | "daily"
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *game.Engine
	lastSeen time.Time
}

// NewSession wraps an engine.
func NewSession(id, mode string, e *game.Engine) *Session {
	now := time.Now()
	return &Session{ID: id, Mode: mode, CreatedAt: now, engine: e, lastSeen: now}
}

// Do runs fn with exclusive access to the engine and marks the session as used.
func (s *Session) Do(fn func(e *game.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.engine)
}

// LastSeen returns the time of the last Do call.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		log.Debug().Int("evicted", n).Int("live", len(m.sessions)).Msg("swept idle sessions")
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Janitor calls Sweep every interval until ctx is done.
func Janitor(ctx context.Context, st Store, interval, idleFor time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep(ctx, idleFor)
		}
	}
}
