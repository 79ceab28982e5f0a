package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ednaviz/internal/logger"
	"ednaviz/internal/projector"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = 30 * time.Minute

// DefaultMaxSessions bounds the live sessions of a store
const DefaultMaxSessions = 1000

// Session is one viewer's dashboard state
type Session struct {
	ID        string
	Analytics *AnalyticsView
	Projects  *ProjectsView
	Monitor   *MonitorView
	Created   time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Snapshot is the serializable view of a session
type Snapshot struct {
	ID              string               `json:"id"`
	ActiveChart     string               `json:"active_chart"`
	Hover           *projector.Selection `json:"hover,omitempty"`
	SelectedProject int                  `json:"selected_project"`
	ShowNewProject  bool                 `json:"show_new_project"`
	Processing      bool                 `json:"processing"`
	SelectedSample  int                  `json:"selected_sample,omitempty"`
	Clock           time.Time            `json:"clock"`
}

// Snapshot captures the current state of every view
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:              s.ID,
		ActiveChart:     s.Analytics.Active().ID(),
		SelectedProject: s.Projects.Selected().ID,
		ShowNewProject:  s.Projects.ShowNewProject(),
		Processing:      s.Monitor.Processing(),
		SelectedSample:  s.Monitor.SelectedSample(),
		Clock:           s.Monitor.Now(),
	}
	if sel, ok := s.Analytics.Hover().Selected(); ok {
		snap.Hover = &sel
	}
	return snap
}

// SessionStore keeps sessions by id and expires idle ones
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	monitor  func() MonitorConfig
	now      func() time.Time
	log      *logger.Logger
}

// StoreConfig configures a SessionStore. Monitor builds the config of each
// new session's MonitorView. Once MaxSessions are live, creating another
// evicts the least recently used one.
type StoreConfig struct {
	TTL         time.Duration
	MaxSessions int
	Monitor     func() MonitorConfig
	Now         func() time.Time
}

func NewSessionStore(cfg StoreConfig) *SessionStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Monitor == nil {
		cfg.Monitor = func() MonitorConfig { return MonitorConfig{} }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      cfg.TTL,
		max:      cfg.MaxSessions,
		monitor:  cfg.Monitor,
		now:      cfg.Now,
		log:      logger.Component("sessions"),
	}
}

// Create starts a new session
func (st *SessionStore) Create() *Session {
	now := st.now()
	mcfg := st.monitor()
	if mcfg.Now == nil {
		mcfg.Now = st.now
	}
	s := &Session{
		ID:        uuid.NewString(),
		Analytics: NewAnalyticsView(),
		Projects:  NewProjectsView(),
		Monitor:   NewMonitorView(mcfg),
		Created:   now,
		lastSeen:  now,
	}

	st.mu.Lock()
	var evicted *Session
	if len(st.sessions) >= st.max {
		evicted = st.oldestLocked()
		delete(st.sessions, evicted.ID)
	}
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	if evicted != nil {
		evicted.Monitor.Close()
		st.log.Warn("session limit reached, evicted least recently used", logger.Fields{
			"session": evicted.ID,
			"limit":   st.max,
		})
	}
	st.log.Info("session created", logger.Fields{"session": s.ID, "active": n})
	return s
}

func (st *SessionStore) oldestLocked() *Session {
	var oldest *Session
	var oldestSeen time.Time
	for _, s := range st.sessions {
		seen := s.idleSince()
		if oldest == nil || seen.Before(oldestSeen) {
			oldest, oldestSeen = s, seen
		}
	}
	return oldest
}

// Get returns a live session and marks it as used
func (st *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	now := st.now()

	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok && now.Sub(s.idleSince()) > st.ttl {
		delete(st.sessions, id)
		st.mu.Unlock()
		s.Monitor.Close()
		return nil, fmt.Errorf("%w: %s expired", ErrSessionNotFound, id)
	}
	st.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(now)
	return s, nil
}

// Close removes a session and stops its timers
func (st *SessionStore) Close(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Monitor.Close()
	st.log.Info("session closed", logger.Fields{"session": id})
	return nil
}

// Sweep removes sessions idle longer than the TTL and returns how many
func (st *SessionStore) Sweep() int {
	now := st.now()
	var expired []*Session

	st.mu.Lock()
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.ttl {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Monitor.Close()
	}
	if len(expired) > 0 {
		st.log.Info("expired idle sessions", logger.Fields{"count": len(expired)})
	}
	return len(expired)
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Run sweeps every interval until ctx is done, then closes all sessions
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.closeAll()
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

func (st *SessionStore) closeAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range all {
		s.Monitor.Close()
	}
}
