package rules

import (
	"chessarchive/internal/board"
	"chessarchive/internal/core"
)

// Forward returns the row delta of a pawn advance for c
func Forward(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

// HomeRow returns the row pawns of color c start on
func HomeRow(c core.Color) int {
	if c == core.ColorWhite {
		return core.BoardSize - 2
	}
	return 1
}

func pawn(b *board.Board, p board.Piece, to core.Square) bool {
	dir := Forward(p.Color)
	dr, dc := to.Row-p.Pos.Row, to.Col-p.Pos.Col
	target := b.At(to)

	switch {
	case dc == 0 && dr == dir:
		return target.IsEmpty()

	case dc == 0 && dr == 2*dir:
		if p.Pos.Row != HomeRow(p.Color) {
			return false
		}
		crossed := core.Square{Row: p.Pos.Row + dir, Col: p.Pos.Col}
		return target.IsEmpty() && b.At(crossed).IsEmpty()

	case abs(dc) == 1 && dr == dir:
		if !target.IsEmpty() {
			return target.Color != p.Color
		}
		victim := b.At(core.Square{Row: p.Pos.Row, Col: to.Col})
		return victim.Kind == core.KindPawn && victim.Color != p.Color && victim.EnPassant
	}

	return false
}
