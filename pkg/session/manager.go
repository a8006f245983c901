package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/google/uuid"
)

// Opener starts driver sessions by problem ID. *registry.Registry satisfies it.
type Opener interface {
	Open(problemID string, opts ...driver.Option) (driver.Session, error)
}

// Entry is a live session owned by the Manager.
type Entry struct {
	ID        string         `json:"id"`
	Problem   string         `json:"problem"`
	CreatedAt time.Time      `json:"created_at"`
	Session   driver.Session `json:"-"`
}

// Manager owns live playback sessions. Each session is created, looked up
// and dropped only through the Manager, so no timer outlives its session.
type Manager struct {
	opener Opener

	mu       sync.RWMutex
	sessions map[string]*Entry

	driverOpts []driver.Option
	limit      int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithDriverOptions applies opts to every driver the Manager opens.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(m *Manager) {
		m.driverOpts = append(m.driverOpts, opts...)
	}
}

// WithLimit caps the number of live sessions. Zero means unlimited.
func WithLimit(n int) Option {
	return func(m *Manager) {
		m.limit = n
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager opening sessions through opener.
func NewManager(opener Opener, opts ...Option) *Manager {
	m := &Manager{
		opener:   opener,
		sessions: make(map[string]*Entry),
		now:      time.Now,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session for problemID under a fresh ID.
func (m *Manager) Create(problemID string, opts ...driver.Option) (*Entry, error) {
	if m.limit > 0 && m.Len() >= m.limit {
		return nil, fmt.Errorf("%w: %d live sessions", ErrLimitReached, m.limit)
	}

	all := append(append([]driver.Option{}, m.driverOpts...), opts...)
	s, err := m.opener.Open(problemID, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	e := &Entry{
		ID:        uuid.NewString(),
		Problem:   problemID,
		CreatedAt: m.now(),
		Session:   s,
	}

	// Re-check under the write lock: concurrent creates all pass the fast
	// check above while the limit still has room.
	m.mu.Lock()
	if m.limit > 0 && len(m.sessions) >= m.limit {
		m.mu.Unlock()
		s.Close()
		return nil, fmt.Errorf("%w: %d live sessions", ErrLimitReached, m.limit)
	}
	m.sessions[e.ID] = e
	m.mu.Unlock()

	m.logger.Debug("Session created", "session_id", e.ID, "problem", problemID)
	return e, nil
}

// Get returns the live session with the given ID.
func (m *Manager) Get(id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return e, nil
}

// Delete pauses and closes the session, then forgets it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	e.Session.Pause()
	e.Session.Close()
	m.logger.Debug("Session deleted", "session_id", id)
	return nil
}

// List returns the live sessions, oldest first.
func (m *Manager) List() []*Entry {
	m.mu.RLock()
	out := make([]*Entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close drops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.Session.Pause()
		e.Session.Close()
	}
	if len(sessions) > 0 {
		m.logger.Info("Sessions closed", "count", len(sessions))
	}
}
