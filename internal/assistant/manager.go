package assistant

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nriassist/internal/logging"
	"nriassist/internal/services"
)

// Manager keeps the daemon's live sessions.
type Manager struct {
	deps   Deps
	opts   []Option
	now    func() time.Time
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager. opts apply to every session it
// creates; WithID is overridden.
func NewManager(deps Deps, opts ...Option) *Manager {
	cfg := resolveSettings(opts)
	return &Manager{
		deps:     deps,
		opts:     append([]Option(nil), opts...),
		now:      cfg.now,
		logger:   logging.NewComponentLogger(deps.Logger, "assistant"),
		sessions: make(map[string]*Session),
	}
}

// Create opens a new greeted session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	opts := append(append([]Option(nil), m.opts...), WithID(id))
	session := NewSession(m.deps, opts...)
	session.Open()

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	m.logger.Info("session created", logging.String(logging.FieldSessionID, id))
	return session
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "assistant", "get session", fmt.Sprintf("session %q", id), nil)
	}
	return session, nil
}

// Delete drops the session with id.
func (m *Manager) Delete(id string) error {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return services.Wrap(services.ErrNotFound, "assistant", "delete session", fmt.Sprintf("session %q", id), nil)
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns snapshots ordered by creation time.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, session.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed. Busy sessions are kept.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, session := range m.sessions {
		if session.Busy() || !session.LastActivity().Before(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.logger.Info("idle sessions expired",
			logging.Int("removed", removed),
			logging.Int("remaining", len(m.sessions)),
		)
	}
	return removed
}
