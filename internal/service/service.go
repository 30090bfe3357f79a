package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/game"
	"chessarchive/internal/storage"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNoHistory       = errors.New("game has no recorded moves")
	ErrStorageDisabled = errors.New("storage is disabled")
)

// session serializes access to one game
type session struct {
	mu       sync.Mutex
	g        *game.Game
	autosave string // pending task ID
}

// Service is a registry of play sessions with optional archive storage
type Service struct {
	sessions map[string]*session
	mu       sync.RWMutex
	store    storage.Store // nil if persistence disabled
	log      *zap.Logger
}

// Snapshot is a point-in-time view of a session
type Snapshot struct {
	ID        string
	Board     board.Board
	Turn      core.Color
	Steps     int
	CanSave   bool
	Location  string
	LastMove  *game.MoveResult
	CreatedAt time.Time
}

// New creates a service; store may be nil and log may be nil
func New(store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sessions: make(map[string]*session),
		store:    store,
		log:      log,
	}
}

// CreateGame starts a session at the standard opening
func (s *Service) CreateGame() Snapshot {
	return s.install(game.New())
}

func (s *Service) install(g *game.Game) Snapshot {
	s.mu.Lock()
	id := s.generateID()
	s.sessions[id] = &session{g: g}
	s.mu.Unlock()

	s.log.Debug("session created", zap.String("game_id", id), zap.Int("steps", g.History().Len()))
	return snapshotOf(id, g)
}

// generateID must be called with s.mu held
func (s *Service) generateID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.sessions[id]; !exists {
			return id
		}
	}
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return sess, nil
}

// GetGame returns the current view of a session
func (s *Service) GetGame(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(id, sess.g), nil
}

// DeleteGame removes a session from memory. Saved archives are untouched.
func (s *Service) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(s.sessions, id)
	s.log.Debug("session deleted", zap.String("game_id", id))
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close drops all sessions and closes the store
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*session)
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func snapshotOf(id string, g *game.Game) Snapshot {
	h := g.History()
	return Snapshot{
		ID:        id,
		Board:     g.Board(),
		Turn:      g.Turn(),
		Steps:     h.Len(),
		CanSave:   g.HasSteps(),
		Location:  h.Path(),
		LastMove:  g.LastResult(),
		CreatedAt: h.CreatedAt(),
	}
}
