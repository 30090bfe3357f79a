package board

import (
	"strings"
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

func TestNewStandard(t *testing.T) {
	b := NewStandard()

	if n := len(b.Pieces()); n != 32 {
		t.Fatalf("standard board has %d pieces, want 32", n)
	}

	tests := []struct {
		at    string
		kind  core.PieceKind
		color core.Color
	}{
		{"a8", core.KindRook, core.ColorBlack},
		{"e8", core.KindKing, core.ColorBlack},
		{"d1", core.KindQueen, core.ColorWhite},
		{"g1", core.KindKnight, core.ColorWhite},
		{"e2", core.KindPawn, core.ColorWhite},
		{"c7", core.KindPawn, core.ColorBlack},
	}
	for _, tt := range tests {
		p := b.At(sq(tt.at))
		if p.Kind != tt.kind || p.Color != tt.color {
			t.Errorf("%s: got %v, want %s %s", tt.at, p, tt.color, tt.kind)
		}
		if p.Pos != sq(tt.at) {
			t.Errorf("%s: piece reports position %v", tt.at, p.Pos)
		}
	}

	for r := 2; r < 6; r++ {
		for c := 0; c < core.BoardSize; c++ {
			if !b.At(core.Square{Row: r, Col: c}).IsEmpty() {
				t.Errorf("(%d,%d) should be empty", r, c)
			}
		}
	}
}

func TestFEN(t *testing.T) {
	if got := NewStandard().FEN(); got != StartingPlacement {
		t.Errorf("FEN() = %q, want %q", got, StartingPlacement)
	}

	b := NewStandard()
	b.ApplyMove(sq("e2"), sq("e4"))
	if got, want := b.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"; got != want {
		t.Errorf("after e2e4 FEN() = %q, want %q", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	for _, fen := range []string{
		"",
		"8/8/8/8/8/8/8",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
	} {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded", fen)
		}
	}
}

func TestApplyMoveCapture(t *testing.T) {
	b, err := ParseFEN("8/8/8/3p4/4N3/8/8/8")
	if err != nil {
		t.Fatal(err)
	}

	captured := b.ApplyMove(sq("e4"), sq("d5"))
	if captured.Kind != core.KindPawn || captured.Color != core.ColorBlack {
		t.Fatalf("captured %v, want black pawn", captured)
	}
	if !b.At(sq("e4")).IsEmpty() {
		t.Error("source not cleared")
	}
	moved := b.At(sq("d5"))
	if moved.Kind != core.KindKnight || moved.Pos != sq("d5") {
		t.Errorf("destination holds %v", moved)
	}
}

func TestApplyMoveQuiet(t *testing.T) {
	b := NewStandard()
	captured := b.ApplyMove(sq("g1"), sq("f3"))
	if !captured.IsEmpty() {
		t.Errorf("quiet move captured %v", captured)
	}
}

func TestApplyMoveInverse(t *testing.T) {
	t.Run("occupancy restored", func(t *testing.T) {
		b := NewStandard()
		b.ApplyMove(sq("g1"), sq("f3"))
		b.ApplyMove(sq("f3"), sq("g1"))
		if *b != *NewStandard() {
			t.Errorf("board after g1-f3-g1 differs from the opening:\n%s", b.ToASCII())
		}
	})

	t.Run("flag not restored", func(t *testing.T) {
		b := NewStandard()
		b.ApplyMove(sq("e2"), sq("e4"))
		before := *b

		b.ApplyMove(sq("g8"), sq("f6"))
		b.ApplyMove(sq("f6"), sq("g8"))
		if !b.SameOccupancy(&before) {
			t.Fatal("occupancy not restored")
		}
		if b.At(sq("e4")).EnPassant {
			t.Error("en passant flag came back after the inverse move")
		}
		if *b == before {
			t.Error("board equals the pre-move board including flags")
		}
	})

	t.Run("double step back flags the pawn", func(t *testing.T) {
		b := NewStandard()
		b.ApplyMove(sq("e2"), sq("e4"))
		b.ApplyMove(sq("e4"), sq("e2"))
		if !b.SameOccupancy(NewStandard()) {
			t.Fatal("occupancy not restored")
		}
		if !b.At(sq("e2")).EnPassant {
			t.Error("two-row retreat did not set the flag")
		}
	})

	t.Run("capture not restored", func(t *testing.T) {
		b, err := ParseFEN("8/8/8/3p4/4N3/8/8/8")
		if err != nil {
			t.Fatal(err)
		}
		before := *b

		if c := b.ApplyMove(sq("e4"), sq("d5")); c.Kind != core.KindPawn {
			t.Fatalf("captured %v", c)
		}
		if c := b.ApplyMove(sq("d5"), sq("e4")); !c.IsEmpty() {
			t.Errorf("inverse move captured %v", c)
		}
		if b.SameOccupancy(&before) {
			t.Error("captured pawn reappeared")
		}
		if !b.At(sq("d5")).IsEmpty() || b.At(sq("e4")).Kind != core.KindKnight {
			t.Errorf("board:\n%s", b.ToASCII())
		}
	})
}

func TestEnPassantFlag(t *testing.T) {
	b := NewStandard()

	b.ApplyMove(sq("e2"), sq("e4"))
	if !b.At(sq("e4")).EnPassant {
		t.Fatal("double step did not set the flag")
	}

	b.ApplyMove(sq("d7"), sq("d6"))
	if b.At(sq("e4")).EnPassant {
		t.Error("flag survived the next move")
	}
	if b.At(sq("d6")).EnPassant {
		t.Error("single step set the flag")
	}
}

func TestEnPassantCapture(t *testing.T) {
	b := NewEmpty()
	b.Place(Piece{Kind: core.KindPawn, Color: core.ColorWhite, Pos: core.Square{Row: 3, Col: 4}})
	b.Place(Piece{Kind: core.KindPawn, Color: core.ColorBlack, Pos: core.Square{Row: 1, Col: 3}})

	b.ApplyMove(core.Square{Row: 1, Col: 3}, core.Square{Row: 3, Col: 3})
	captured := b.ApplyMove(core.Square{Row: 3, Col: 4}, core.Square{Row: 2, Col: 3})

	if captured.Kind != core.KindPawn || captured.Color != core.ColorBlack {
		t.Fatalf("captured %v, want black pawn", captured)
	}
	if !b.At(core.Square{Row: 3, Col: 3}).IsEmpty() {
		t.Error("victim square (3,3) not cleared")
	}
	if p := b.At(core.Square{Row: 2, Col: 3}); p.Kind != core.KindPawn || p.Color != core.ColorWhite {
		t.Errorf("destination holds %v", p)
	}
	if n := len(b.Pieces()); n != 1 {
		t.Errorf("%d pieces left, want 1", n)
	}
}

func TestDiagonalPawnWithoutFlagCapturesNothing(t *testing.T) {
	b := NewEmpty()
	b.Place(Piece{Kind: core.KindPawn, Color: core.ColorWhite, Pos: core.Square{Row: 3, Col: 4}})
	b.Place(Piece{Kind: core.KindPawn, Color: core.ColorBlack, Pos: core.Square{Row: 3, Col: 3}})

	captured := b.ApplyMove(core.Square{Row: 3, Col: 4}, core.Square{Row: 2, Col: 3})
	if !captured.IsEmpty() {
		t.Errorf("captured %v without an en passant flag", captured)
	}
	if b.At(core.Square{Row: 3, Col: 3}).IsEmpty() {
		t.Error("unflagged pawn was removed")
	}
}

func TestBoardIsValue(t *testing.T) {
	a := NewStandard()
	snapshot := *a
	a.ApplyMove(sq("e2"), sq("e4"))

	if snapshot.At(sq("e2")).IsEmpty() {
		t.Error("copy aliases the original board")
	}
	if snapshot.SameOccupancy(a) {
		t.Error("SameOccupancy missed a moved pawn")
	}
}

func TestAtOffBoard(t *testing.T) {
	b := NewStandard()
	if !b.At(core.Square{Row: 8, Col: 0}).IsEmpty() {
		t.Error("off-board square should read as empty")
	}
	b.Place(Piece{Kind: core.KindQueen, Color: core.ColorWhite, Pos: core.Square{Row: -1, Col: 0}})
	if n := len(b.Pieces()); n != 32 {
		t.Errorf("off-board Place changed the board: %d pieces", n)
	}
}

func TestToASCII(t *testing.T) {
	out := NewStandard().ToASCII()
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[1] != "8 r n b q k b n r  8" {
		t.Errorf("rank 8 = %q", lines[1])
	}
	if lines[4] != "5 . . . . . . . .  5" {
		t.Errorf("rank 5 = %q", lines[4])
	}
}
