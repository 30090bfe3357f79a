package board

import (
	nchess "github.com/corentings/chess/v2"

	"chessarchive/internal/core"
)

var fenPieces = map[core.Color]map[core.PieceKind]nchess.Piece{
	core.ColorWhite: {
		core.KindPawn:   nchess.WhitePawn,
		core.KindKnight: nchess.WhiteKnight,
		core.KindBishop: nchess.WhiteBishop,
		core.KindRook:   nchess.WhiteRook,
		core.KindQueen:  nchess.WhiteQueen,
		core.KindKing:   nchess.WhiteKing,
	},
	core.ColorBlack: {
		core.KindPawn:   nchess.BlackPawn,
		core.KindKnight: nchess.BlackKnight,
		core.KindBishop: nchess.BlackBishop,
		core.KindRook:   nchess.BlackRook,
		core.KindQueen:  nchess.BlackQueen,
		core.KindKing:   nchess.BlackKing,
	},
}

// FEN returns the piece placement field for the board
func (b *Board) FEN() string {
	m := make(map[nchess.Square]nchess.Piece)
	for _, p := range b.Pieces() {
		sq := nchess.NewSquare(nchess.File(p.Pos.Col), nchess.Rank(core.BoardSize-1-p.Pos.Row))
		m[sq] = fenPieces[p.Color][p.Kind]
	}
	return nchess.NewBoard(m).String()
}
