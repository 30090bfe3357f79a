package game

import (
	"errors"
	"testing"

	"chessarchive/internal/core"
)

func sq(s string) core.Square {
	v, err := core.ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustMove(t *testing.T, g *Game, from, to string) *MoveResult {
	t.Helper()
	res, err := g.Move(sq(from), sq(to))
	if err != nil {
		t.Fatalf("%s%s: %v", from, to, err)
	}
	return res
}

func TestTurns(t *testing.T) {
	g := New()
	if g.Turn() != core.ColorWhite || g.HasSteps() {
		t.Fatal("new game not at white's first move")
	}

	res := mustMove(t, g, "e2", "e4")
	if res.Player != core.ColorWhite || !res.Captured.IsEmpty() {
		t.Errorf("result = %+v", res)
	}
	if g.Turn() != core.ColorBlack {
		t.Errorf("turn = %s", g.Turn())
	}

	if _, err := g.Move(sq("d2"), sq("d4")); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("white moved twice: %v", err)
	}
}

func TestMoveErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"empty square", "e4", "e5", ErrNoPiece},
		{"wrong color", "e7", "e5", ErrNotYourTurn},
		{"illegal", "e2", "e5", ErrIllegalMove},
		{"blocked", "a1", "a3", ErrIllegalMove},
		{"same square", "a1", "a1", ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			before := g.Board()
			_, err := g.Move(sq(tt.from), sq(tt.to))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if g.Board() != before || g.HasSteps() {
				t.Error("rejected move changed the game")
			}
		})
	}
}

func TestCaptureAndUndo(t *testing.T) {
	g := New()
	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "d7", "d5")
	res := mustMove(t, g, "e4", "d5")
	if res.Captured.Kind != core.KindPawn || res.Captured.Color != core.ColorBlack {
		t.Fatalf("captured %v", res.Captured)
	}
	if g.LastResult() != res {
		t.Error("LastResult not tracked")
	}

	b := g.Undo()
	if b.At(sq("d5")).Color != core.ColorBlack || b.At(sq("e4")).Kind != core.KindPawn {
		t.Error("undo did not restore the capture")
	}
	if g.Turn() != core.ColorWhite {
		t.Errorf("turn after undo = %s", g.Turn())
	}
	if g.LastResult() != nil {
		t.Error("LastResult survived undo")
	}
	if g.History().Len() != 2 {
		t.Errorf("history len = %d", g.History().Len())
	}
}

func TestBoardIsCopy(t *testing.T) {
	g := New()
	b := g.Board()
	b.Remove(sq("e2"))
	live := g.Board()
	if live.At(sq("e2")).IsEmpty() {
		t.Error("Board exposed the live board")
	}
}

func TestAfter(t *testing.T) {
	g := New()
	var fired []string

	g.After(2, func() { fired = append(fired, "two") })
	g.After(1, func() { fired = append(fired, "one") })
	cancelled := g.After(1, func() { fired = append(fired, "cancelled") })
	if !g.Cancel(cancelled) {
		t.Fatal("Cancel reported the task missing")
	}
	if g.Cancel(cancelled) {
		t.Error("Cancel succeeded twice")
	}

	mustMove(t, g, "e2", "e4")
	if len(fired) != 1 || fired[0] != "one" {
		t.Fatalf("after one move fired %v", fired)
	}

	// rejected moves do not count
	g.Move(sq("e4"), sq("e6"))
	if len(fired) != 1 {
		t.Fatalf("rejected move fired %v", fired)
	}

	mustMove(t, g, "e7", "e5")
	if len(fired) != 2 || fired[1] != "two" {
		t.Fatalf("after two moves fired %v", fired)
	}
	if g.PendingTasks() != 0 {
		t.Errorf("%d tasks pending", g.PendingTasks())
	}
}

func TestAfterReschedule(t *testing.T) {
	g := New()
	count := 0
	var tick func()
	tick = func() {
		count++
		g.After(1, tick)
	}
	g.After(1, tick)

	mustMove(t, g, "e2", "e4")
	mustMove(t, g, "e7", "e5")
	mustMove(t, g, "g1", "f3")
	if count != 3 {
		t.Errorf("rescheduled task ran %d times, want 3", count)
	}
	if g.PendingTasks() != 1 {
		t.Errorf("%d tasks pending, want 1", g.PendingTasks())
	}
}

func TestAfterClampsDelay(t *testing.T) {
	g := New()
	ran := false
	g.After(0, func() { ran = true })
	mustMove(t, g, "e2", "e4")
	if !ran {
		t.Error("task with zero delay did not run on the next move")
	}
}
