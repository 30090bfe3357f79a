package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"chessarchive/internal/archive"
	"chessarchive/internal/core"
	"chessarchive/internal/game"
	"chessarchive/internal/storage"
)

func sq(s string) core.Square {
	v, err := core.ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newFileService(t *testing.T) (*Service, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(store, nil), store
}

func play(t *testing.T, s *Service, id string, moves ...string) Snapshot {
	t.Helper()
	var snap Snapshot
	for _, m := range moves {
		var err error
		snap, err = s.Move(id, sq(m[:2]), sq(m[2:]))
		if err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
	}
	return snap
}

// failingStore accepts reads but rejects every write
type failingStore struct {
	storage.Store
}

func (failingStore) Save(context.Context, storage.Record) error {
	return errors.New("disk full")
}

func TestSessionLifecycle(t *testing.T) {
	s := New(nil, nil)

	snap := s.CreateGame()
	if snap.ID == "" || snap.Turn != core.ColorWhite || snap.CanSave {
		t.Fatalf("new session = %+v", snap)
	}

	snap = play(t, s, snap.ID, "e2e4")
	if snap.Steps != 1 || snap.Turn != core.ColorBlack || !snap.CanSave {
		t.Errorf("after e2e4 = %+v", snap)
	}
	if snap.LastMove == nil || snap.LastMove.From != sq("e2") {
		t.Errorf("last move = %+v", snap.LastMove)
	}

	if _, err := s.Move(snap.ID, sq("d2"), sq("d4")); !errors.Is(err, game.ErrNotYourTurn) {
		t.Errorf("out of turn move: %v", err)
	}

	if err := s.DeleteGame(snap.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGame(snap.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("deleted session still found: %v", err)
	}
	if err := s.DeleteGame(snap.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("double delete: %v", err)
	}
}

func TestUndoKeepsFirstStep(t *testing.T) {
	s := New(nil, nil)
	id := s.CreateGame().ID
	play(t, s, id, "e2e4", "e7e5")

	snap, err := s.Undo(id)
	if err != nil || snap.Steps != 1 || snap.Turn != core.ColorBlack {
		t.Fatalf("undo = %+v, %v", snap, err)
	}
	snap, err = s.Undo(id)
	if err != nil || snap.Steps != 1 {
		t.Fatalf("undo of the only step = %+v, %v", snap, err)
	}
	if _, err := s.Undo("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("undo on unknown session: %v", err)
	}
}

func TestSaveRequiresStorageAndMoves(t *testing.T) {
	s := New(nil, nil)
	id := s.CreateGame().ID
	if _, err := s.Save(context.Background(), id, "x"); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("save without store: %v", err)
	}
	if _, err := s.Load(context.Background(), "x"); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("load without store: %v", err)
	}

	s, _ = newFileService(t)
	id = s.CreateGame().ID
	if _, err := s.Save(context.Background(), id, "x"); !errors.Is(err, ErrNoHistory) {
		t.Errorf("save with no moves: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := newFileService(t)
	ctx := context.Background()
	id := s.CreateGame().ID
	before := play(t, s, id, "e2e4", "d7d5", "e4d5")

	loc, err := s.Save(ctx, id, "opening")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if loc != "opening" {
		t.Errorf("location = %q", loc)
	}
	snap, _ := s.GetGame(id)
	if snap.Location != "opening" {
		t.Errorf("session location = %q", snap.Location)
	}

	// saving again without a location reuses the last one
	play(t, s, id, "d8d5")
	if loc, err = s.Save(ctx, id, ""); err != nil || loc != "opening" {
		t.Fatalf("re-save = %q, %v", loc, err)
	}

	loaded, err := s.Load(ctx, "opening")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID == id {
		t.Error("load reused the source session ID")
	}
	if loaded.Steps != before.Steps+1 || loaded.Turn != core.ColorWhite {
		t.Errorf("loaded = %d steps, %s to move", loaded.Steps, loaded.Turn)
	}
	if loaded.Location != "opening" {
		t.Errorf("loaded location = %q", loaded.Location)
	}
	if loaded.Board.At(sq("d5")).Kind != core.KindQueen {
		t.Error("loaded board is not the saved position")
	}

	records, err := s.List(ctx)
	if err != nil || len(records) != 1 || records[0].ID != "opening" {
		t.Errorf("List = %+v, %v", records, err)
	}
}

func TestSaveDefaultsToSessionID(t *testing.T) {
	s, store := newFileService(t)
	id := s.CreateGame().ID
	play(t, s, id, "g1f3")

	loc, err := s.Save(context.Background(), id, "")
	if err != nil || loc != id {
		t.Fatalf("Save = %q, %v", loc, err)
	}
	if _, err := store.Load(context.Background(), id); err != nil {
		t.Errorf("archive not written under the session ID: %v", err)
	}
}

func TestPersistFailureLeavesSessionUnchanged(t *testing.T) {
	s := New(failingStore{}, nil)
	id := s.CreateGame().ID
	before := play(t, s, id, "e2e4")

	_, err := s.Save(context.Background(), id, "somewhere")
	if archive.Code(err) != core.ErrPersistFailed {
		t.Fatalf("Save error = %v, want PERSIST_FAILED", err)
	}

	after, _ := s.GetGame(id)
	if after.Location != "" || after.Steps != before.Steps || after.Board != before.Board {
		t.Errorf("session changed by a failed save: %+v", after)
	}
}

func TestLoadRejectsInvalidArchive(t *testing.T) {
	s, store := newFileService(t)
	ctx := context.Background()

	err := store.Save(ctx, storage.Record{ID: "bad", Document: []byte(`{"steps":[{"from":{"row":0,"col":0},"to":{"row":0,"col":0},"board":[]}],"colorToMove":"WHITE"}`)})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, "bad"); archive.Code(err) != core.ErrMalformedBoardSize {
		t.Errorf("Load(bad) = %v", err)
	}
	if len(s.sessions) != 0 {
		t.Errorf("%d sessions installed from a rejected archive", len(s.sessions))
	}

	if _, err := s.Load(ctx, "absent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load(absent) = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	s := New(nil, nil)
	id := s.CreateGame().ID
	play(t, s, id, "e2e4", "e7e5")

	doc, err := s.Export(id)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Import(doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if snap.ID == id || snap.Steps != 2 || snap.Turn != core.ColorWhite {
		t.Errorf("imported = %+v", snap)
	}

	if _, err := s.Import([]byte("{")); archive.Code(err) != core.ErrDocumentUnreadable {
		t.Errorf("Import(garbage) = %v", err)
	}
}

func TestAutosave(t *testing.T) {
	s, store := newFileService(t)
	id := s.CreateGame().ID

	var saved []string
	if err := s.EnableAutosave(id, 2, "auto", func(loc string, err error) {
		if err != nil {
			t.Errorf("autosave failed: %v", err)
		}
		saved = append(saved, loc)
	}); err != nil {
		t.Fatal(err)
	}

	play(t, s, id, "e2e4")
	if len(saved) != 0 {
		t.Fatalf("autosaved after one move")
	}
	play(t, s, id, "e7e5", "g1f3", "b8c6")
	if len(saved) != 2 {
		t.Fatalf("autosaved %d times after four moves, want 2", len(saved))
	}

	data, err := store.Load(context.Background(), "auto")
	if err != nil {
		t.Fatal(err)
	}
	h, err := archive.Unmarshal(data)
	if err != nil || h.Len() != 4 {
		t.Errorf("autosaved archive: %v steps, %v", h, err)
	}

	ok, err := s.DisableAutosave(id)
	if err != nil || !ok {
		t.Fatalf("DisableAutosave = %v, %v", ok, err)
	}
	play(t, s, id, "f1c4", "g8f6")
	if len(saved) != 2 {
		t.Errorf("autosave ran after being disabled")
	}
}

func TestConcurrentSessions(t *testing.T) {
	s := New(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.CreateGame().ID
			for _, m := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
				if _, err := s.Move(id, sq(m[:2]), sq(m[2:])); err != nil {
					t.Errorf("move %s: %v", m, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if len(s.sessions) != 8 {
		t.Errorf("%d sessions", len(s.sessions))
	}
}

func TestStorageHealth(t *testing.T) {
	if got := New(nil, nil).GetStorageHealth(); got != "disabled" {
		t.Errorf("health without store = %q", got)
	}
	s, _ := newFileService(t)
	if got := s.GetStorageHealth(); got != "ok" {
		t.Errorf("health with file store = %q", got)
	}
}
