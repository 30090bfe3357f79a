package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chessarchive/internal/archive"
	"chessarchive/internal/core"
	"chessarchive/internal/game"
	"chessarchive/internal/storage"
)

// Save persists the session's history under location, or under the session's
// last location (falling back to its ID) when location is empty. A failed write
// returns PERSIST_FAILED and leaves the session unchanged.
func (s *Service) Save(ctx context.Context, id, location string) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.g.HasSteps() {
		return "", ErrNoHistory
	}
	if location == "" {
		location = sess.g.History().Path()
	}
	if location == "" {
		location = id
	}
	if err := s.persist(ctx, sess.g, location); err != nil {
		return "", err
	}
	return location, nil
}

// persist writes g's history; callers hold the session lock
func (s *Service) persist(ctx context.Context, g *game.Game, location string) error {
	h := g.History()
	doc, err := archive.Marshal(h)
	if err != nil {
		return &archive.Error{Code: core.ErrPersistFailed, Detail: location, Err: err}
	}

	current := g.Board()
	rec := storage.Record{
		ID:          location,
		CreatedAt:   h.CreatedAt(),
		SavedAt:     time.Now().UTC(),
		Steps:       h.Len(),
		ColorToMove: h.ColorToMove().Short(),
		FEN:         current.FEN(),
		Document:    doc,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.log.Warn("save failed", zap.String("location", location), zap.Error(err))
		return &archive.Error{Code: core.ErrPersistFailed, Detail: location, Err: err}
	}

	h.SetPath(location)
	s.log.Info("archive saved", zap.String("location", location), zap.Int("steps", rec.Steps))
	return nil
}

// Load reads and validates the archive at location and installs it as a new
// session. Nothing is installed when validation fails.
func (s *Service) Load(ctx context.Context, location string) (Snapshot, error) {
	if s.store == nil {
		return Snapshot{}, ErrStorageDisabled
	}
	data, err := s.store.Load(ctx, location)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Snapshot{}, fmt.Errorf("%w: %s", storage.ErrNotFound, location)
		}
		return Snapshot{}, &archive.Error{Code: core.ErrDocumentUnreadable, Detail: location, Err: err}
	}

	h, err := archive.Load(bytes.NewReader(data))
	if err != nil {
		s.log.Info("archive rejected",
			zap.String("location", location),
			zap.String("code", archive.Code(err)),
			zap.Error(err))
		return Snapshot{}, err
	}
	h.SetPath(location)
	return s.install(game.FromHistory(h)), nil
}

// List returns saved archives, most recent first
func (s *Service) List(ctx context.Context) ([]storage.Record, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.List(ctx)
}

// EnableAutosave saves the session every n moves to location, replacing any
// earlier autosave. notify, when set, receives the outcome of each attempt.
func (s *Service) EnableAutosave(id string, n int, location string, notify func(string, error)) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if location == "" {
		location = id
	}
	if sess.autosave != "" {
		sess.g.Cancel(sess.autosave)
	}

	// runs inside Move with sess.mu held
	var fire func()
	fire = func() {
		err := s.persist(context.Background(), sess.g, location)
		if notify != nil {
			notify(location, err)
		}
		sess.autosave = sess.g.After(n, fire)
	}
	sess.autosave = sess.g.After(n, fire)
	return nil
}

// DisableAutosave cancels the session's autosave; it reports whether one was pending
func (s *Service) DisableAutosave(id string) (bool, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.autosave == "" {
		return false, nil
	}
	ok := sess.g.Cancel(sess.autosave)
	sess.autosave = ""
	return ok, nil
}
