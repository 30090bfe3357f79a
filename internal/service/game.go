package service

import (
	"bytes"

	"go.uber.org/zap"

	"chessarchive/internal/archive"
	"chessarchive/internal/core"
	"chessarchive/internal/game"
	"chessarchive/internal/history"
)

// Move plays from→to in the session. Rule violations come back as the game
// package's sentinel errors.
func (s *Service) Move(id string, from, to core.Square) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	res, err := sess.g.Move(from, to)
	if err != nil {
		return Snapshot{}, err
	}

	fields := []zap.Field{
		zap.String("game_id", id),
		zap.Stringer("player", res.Player),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	}
	if !res.Captured.IsEmpty() {
		fields = append(fields, zap.Stringer("captured", res.Captured.Kind))
	}
	s.log.Debug("move applied", fields...)

	return snapshotOf(id, sess.g), nil
}

// Undo rewinds one step. The first recorded step is never removed, so undo on
// a game with fewer than two steps leaves it as is.
func (s *Service) Undo(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.g.Undo()
	return snapshotOf(id, sess.g), nil
}

// Export renders the session's history as a JSON document
func (s *Service) Export(id string) ([]byte, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return archive.Marshal(sess.g.History())
}

// Import validates a raw document and installs it as a new session
func (s *Service) Import(data []byte) (Snapshot, error) {
	h, err := archive.Load(bytes.NewReader(data))
	if err != nil {
		s.log.Info("import rejected", zap.String("code", archive.Code(err)), zap.Error(err))
		return Snapshot{}, err
	}
	return s.install(game.FromHistory(h)), nil
}

// History returns a copy of the session's recorded steps
func (s *Service) History(id string) ([]history.Step, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.g.History().Steps(), nil
}

// After schedules fn to run once n more moves have been played in the session
func (s *Service) After(id string, n int, fn func()) (string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.g.After(n, fn), nil
}
