package session

import (
	"sync"
	"time"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/logging"
	"video-trimmer/internal/metrics"

	"github.com/google/uuid"
)

// Config carries the manager's tunables.
type Config struct {
	// SessionTTL is how long an idle session survives before the janitor
	// releases it. Sessions with an active trim job are never expired.
	SessionTTL time.Duration
	// JanitorInterval is how often idle sessions are swept.
	JanitorInterval time.Duration
	// CutTimeout bounds a single engine cut.
	CutTimeout time.Duration
}

// DefaultConfig returns the built-in manager tunables.
func DefaultConfig() Config {
	return Config{
		SessionTTL:      30 * time.Minute,
		JanitorInterval: time.Minute,
		CutTimeout:      10 * time.Minute,
	}
}

// Manager is the in-memory session store. Nothing persists across process
// restarts.
type Manager struct {
	cfg        Config
	engine     Engine
	openCutter func() (Cutter, error)
	loader     *asset.Loader

	mu       sync.Mutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session store. openCutter mints one engine adapter
// per session.
func NewManager(eng Engine, openCutter func() (Cutter, error), loader *asset.Loader, cfg Config) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = DefaultConfig().JanitorInterval
	}
	if cfg.CutTimeout <= 0 {
		cfg.CutTimeout = DefaultConfig().CutTimeout
	}
	return &Manager{
		cfg:        cfg,
		engine:     eng,
		openCutter: openCutter,
		loader:     loader,
		sessions:   make(map[string]*Session),
		stop:       make(chan struct{}),
	}
}

// Create mints a new session with its own engine adapter.
func (m *Manager) Create() (*Session, error) {
	cutter, err := m.openCutter()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.New().String(),
		engine:     m.engine,
		cutter:     cutter,
		loader:     m.loader,
		job:        TrimJob{State: JobStateIdle},
		cutTimeout: m.cfg.CutTimeout,
		lastActive: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionsCreatedTotal.Inc()
	metrics.ActiveSessions.Set(float64(n))
	logging.Info("Created session %s (%d active)", s.ID, n)
	return s, nil
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove releases a session and its engine adapter.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		s.close()
		metrics.ActiveSessions.Set(float64(n))
		logging.Info("Removed session %s (%d active)", id, n)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor begins the idle-session sweep. Stop ends it.
func (m *Manager) StartJanitor() {
	go func() {
		ticker := time.NewTicker(m.cfg.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep(time.Now())
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the janitor and releases every session.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	metrics.ActiveSessions.Set(0)
}

// sweep releases sessions idle past the TTL, skipping any with a trim in
// flight.
func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastActive) > m.cfg.SessionTTL && !s.job.State.Active()
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		metrics.SessionsExpiredTotal.Inc()
		logging.Info("Expired idle session %s", s.ID)
	}
	if len(expired) > 0 {
		metrics.ActiveSessions.Set(float64(n))
	}
}
