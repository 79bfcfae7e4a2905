package api

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/gridsnake/config"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/sqlite"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// Session is one running game. Ticks and direction input are serialized by mu.
type Session struct {
	ID       string
	mu       sync.Mutex
	ctrl     *snake.Controller
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// PushDirection buffers d for the next tick. It reports false when d is
// not a direction or would reverse a snake longer than one segment. Holding
// mu keeps the heading from changing between the check and the push.
func (s *Session) PushDirection(d structs.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Actor().CanTurn(d) {
		return false
	}
	return s.ctrl.PushDirection(d)
}

// Tick advances exactly one step; used by the live stream.
func (s *Session) Tick() (structs.RenderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.ctrl.Tick()
	s.last = s.now()
	return snap, err
}

// CatchUp runs the ticks that elapsed since the last refresh, at most limit.
// The returned snapshot is the last one, with Grew and Reset set if any of
// the ticks grew or reset the actor.
func (s *Session) CatchUp(limit int) (structs.RenderSnapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	moves := int(now.Sub(s.last) / s.interval)
	if moves <= 0 {
		// 时钟回拨时不补跑, 也不移动last
		return s.ctrl.Snapshot(), 0, nil
	}
	if moves > limit {
		moves = limit
		s.last = now
	} else {
		s.last = s.last.Add(time.Duration(moves) * s.interval)
	}

	snap := s.ctrl.Snapshot()
	grew, reset := false, false
	for i := 0; i < moves; i++ {
		var err error
		snap, err = s.ctrl.Tick()
		grew = grew || snap.Grew
		reset = reset || snap.Reset
		if err != nil {
			snap.Grew, snap.Reset = grew, reset
			return snap, i + 1, err
		}
	}
	snap.Grew, snap.Reset = grew, reset
	return snap, moves, nil
}

// Grid returns the session's board geometry.
func (s *Session) Grid() snake.Grid {
	return s.ctrl.Grid()
}

// State reports whether the session is still running.
func (s *Session) State() snake.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

func (s *Session) record() *structs.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.ctrl.Grid()
	return &structs.Session{
		GroupID:      s.ID,
		Width:        g.Width(),
		Height:       g.Height(),
		CellSize:     g.CellSize(),
		State:        s.ctrl.Export(),
		LastRefresh:  s.last.UnixMilli(),
		TickInterval: int(s.interval / time.Millisecond),
	}
}

// Manager keeps sessions in memory and mirrors them to sqlite.
type Manager struct {
	db       *sql.DB
	cfg      *config.AppConfig
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager(db *sql.DB, cfg *config.AppConfig) *Manager {
	return &Manager{
		db:       db,
		cfg:      cfg,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewID returns a fresh group id for callers that do not bring one.
func NewID() string {
	return uuid.New().String()
}

// Lookup returns an existing session from memory or the database.
func (m *Manager) Lookup(groupID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(groupID)
}

func (m *Manager) lookupLocked(groupID string) (*Session, error) {
	if s, ok := m.sessions[groupID]; ok {
		return s, nil
	}
	rec, err := sqlite.LoadSession(m.db, groupID)
	if err != nil {
		return nil, err
	}
	grid, err := snake.NewGrid(rec.Width, rec.Height, rec.CellSize)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", groupID, err)
	}
	ctrl, err := snake.Restore(grid, rec.State)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", groupID, err)
	}
	interval := time.Duration(rec.TickInterval) * time.Millisecond
	if interval <= 0 {
		interval = m.cfg.TickInterval()
	}
	s := &Session{
		ID:       groupID,
		ctrl:     ctrl,
		interval: interval,
		last:     time.UnixMilli(rec.LastRefresh),
		now:      m.now,
	}
	m.sessions[groupID] = s
	return s, nil
}

// Open returns the session for groupID, creating it with the given board
// size and tick interval when it does not exist yet. Zero values fall back
// to the configuration.
func (m *Manager) Open(groupID string, width, height, intervalMS int) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(groupID)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, sqlite.ErrSessionNotFound) {
		return nil, false, err
	}

	if width == 0 {
		width = m.cfg.GridWidth
	}
	if height == 0 {
		height = m.cfg.GridHeight
	}
	interval := m.cfg.TickInterval()
	if intervalMS > 0 {
		interval = time.Duration(intervalMS) * time.Millisecond
	}

	grid, err := snake.NewGrid(width, height, m.cfg.Blocksize)
	if err != nil {
		return nil, false, err
	}
	if grid.CellCount() > m.cfg.MaxCells {
		return nil, false, fmt.Errorf("%w: %dx%d exceeds %d cells", snake.ErrBadGeometry, width, height, m.cfg.MaxCells)
	}
	ctrl, err := snake.NewController(grid)
	if err != nil {
		return nil, false, err
	}
	s = &Session{
		ID:       groupID,
		ctrl:     ctrl,
		interval: interval,
		last:     m.now(),
		now:      m.now,
	}
	m.sessions[groupID] = s
	return s, true, nil
}

// Save persists the session.
func (m *Manager) Save(s *Session) error {
	return sqlite.SaveSession(m.db, s.record())
}

// Delete drops the session from memory and the database.
func (m *Manager) Delete(groupID string) error {
	m.mu.Lock()
	delete(m.sessions, groupID)
	m.mu.Unlock()
	return sqlite.DeleteSession(m.db, groupID)
}
