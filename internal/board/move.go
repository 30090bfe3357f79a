package board

import (
	"chessarchive/internal/core"
)

// ApplyMove moves the piece on from to to and returns the captured piece, which is
// empty when nothing was taken. Legality is the caller's concern; the transition
// itself never fails.
func (b *Board) ApplyMove(from, to core.Square) Piece {
	mover := b.At(from)
	captured := b.At(to)

	if mover.Kind == core.KindPawn && from.Col != to.Col && captured.IsEmpty() {
		victimSq := core.Square{Row: from.Row, Col: to.Col}
		victim := b.At(victimSq)
		if victim.Kind == core.KindPawn && victim.Color != mover.Color && victim.EnPassant {
			captured = victim
			b.Remove(victimSq)
		}
	}

	b.clearEnPassant()

	mover.Pos = to
	mover.EnPassant = mover.Kind == core.KindPawn && abs(to.Row-from.Row) == 2
	b.Remove(from)
	b.Place(mover)

	return captured
}

func (b *Board) clearEnPassant() {
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			b.squares[r][c].EnPassant = false
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
