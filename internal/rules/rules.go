// Package rules holds the geometric movement predicates for each piece kind.
// Check, pinning, castling and promotion are not modeled.
package rules

import (
	"chessarchive/internal/board"
	"chessarchive/internal/core"
)

type predicate func(b *board.Board, p board.Piece, to core.Square) bool

var table = map[core.PieceKind]predicate{
	core.KindPawn:   pawn,
	core.KindKnight: knight,
	core.KindBishop: bishop,
	core.KindRook:   rook,
	core.KindQueen:  queen,
	core.KindKing:   king,
}

// CanMoveTo reports whether p may move to the destination on b. It never mutates b.
func CanMoveTo(b *board.Board, p board.Piece, to core.Square) bool {
	if p.IsEmpty() || !p.Pos.Valid() || !to.Valid() || p.Pos == to {
		return false
	}
	if target := b.At(to); !target.IsEmpty() && target.Color == p.Color {
		return false
	}
	rule, ok := table[p.Kind]
	if !ok {
		return false
	}
	return rule(b, p, to)
}

func knight(_ *board.Board, p board.Piece, to core.Square) bool {
	dr, dc := to.Row-p.Pos.Row, to.Col-p.Pos.Col
	return dr*dr+dc*dc == 5
}

func king(_ *board.Board, p board.Piece, to core.Square) bool {
	return max(abs(to.Row-p.Pos.Row), abs(to.Col-p.Pos.Col)) == 1
}

func rook(b *board.Board, p board.Piece, to core.Square) bool {
	if p.Pos.Row != to.Row && p.Pos.Col != to.Col {
		return false
	}
	return pathClear(b, p.Pos, to)
}

func bishop(b *board.Board, p board.Piece, to core.Square) bool {
	if abs(to.Row-p.Pos.Row) != abs(to.Col-p.Pos.Col) {
		return false
	}
	return pathClear(b, p.Pos, to)
}

func queen(b *board.Board, p board.Piece, to core.Square) bool {
	return rook(b, p, to) || bishop(b, p, to)
}

// pathClear checks every square strictly between from and to along a line
func pathClear(b *board.Board, from, to core.Square) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for sq := (core.Square{Row: from.Row + dr, Col: from.Col + dc}); sq != to; sq = (core.Square{Row: sq.Row + dr, Col: sq.Col + dc}) {
		if !b.At(sq).IsEmpty() {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
