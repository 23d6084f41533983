package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/clock"
	"github.com/kirinyoku/citybus/internal/flow"
)

const DefaultTTL = 30 * time.Minute

type Options struct {
	Clock  clock.Clock
	Source catalog.Source
	Env    flow.Env
	Hooks  Hooks
	Logger *slog.Logger

	// TTL is how long a session may sit without user events before Sweep
	// closes it.
	TTL time.Duration
}

// Manager keeps the live sessions of the process.
type Manager struct {
	clock  clock.Clock
	source catalog.Source
	env    flow.Env
	hooks  Hooks
	logger *slog.Logger
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Controller
}

func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Source == nil {
		opts.Source = catalog.Static{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	return &Manager{
		clock:    opts.Clock,
		source:   opts.Source,
		env:      opts.Env,
		hooks:    opts.Hooks,
		logger:   opts.Logger,
		ttl:      opts.TTL,
		sessions: make(map[string]*Controller),
	}
}

// Open starts a new session on the login screen.
func (m *Manager) Open() *Controller {
	c := newController(uuid.NewString(), m)

	m.mu.Lock()
	m.sessions[c.id] = c
	m.mu.Unlock()

	m.logger.Debug("session opened", slog.String("session_id", c.id))

	return c
}

func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sessions[id]
	return c, ok
}

// Close retires a session and cancels its pending tasks.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}

	c.Close()
	m.logger.Debug("session closed", slog.String("session_id", id))

	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// it closed.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.RLock()
	var stale []string
	for id, c := range m.sessions {
		if c.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if m.Close(id) {
			n++
		}
	}

	return n
}

// Run sweeps idle sessions until ctx is done, then closes the rest.
func (m *Manager) Run(ctx context.Context) error {
	ticker := m.clock.NewTicker(max(m.ttl/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("idle sessions closed", slog.Int("count", n))
			}
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}
