package board

import (
	"fmt"
	"strings"

	"chessarchive/internal/core"
)

const (
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// Piece is the content of one square. Kind is KindEmpty for an unoccupied square.
// EnPassant marks a pawn that double-stepped on the previous move.
type Piece struct {
	Kind      core.PieceKind
	Color     core.Color
	Pos       core.Square
	EnPassant bool
}

func Empty(sq core.Square) Piece {
	return Piece{Kind: core.KindEmpty, Pos: sq}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == core.KindEmpty
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return fmt.Sprintf("EMPTY %s", p.Pos)
	}
	return fmt.Sprintf("%s %s %s", p.Color, p.Kind, p.Pos)
}

// Board is a total 8x8 grid. It is a value type: assigning a Board copies it.
type Board struct {
	squares [core.BoardSize][core.BoardSize]Piece
}

// NewEmpty returns a board with every square empty
func NewEmpty() *Board {
	b := &Board{}
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			b.squares[r][c] = Empty(core.Square{Row: r, Col: c})
		}
	}
	return b
}

// NewStandard returns the standard opening layout
func NewStandard() *Board {
	b, err := ParseFEN(StartingPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseFEN builds a board from the piece placement field of a FEN string.
// Any fields after the placement are ignored.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid FEN: empty")
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != core.BoardSize {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks, got %d", len(ranks))
	}

	b := NewEmpty()
	for r := 0; r < core.BoardSize; r++ {
		file := 0
		for _, ch := range ranks[r] {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= core.BoardSize {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", 8-r)
			}
			kind, color, ok := pieceFromLetter(byte(ch))
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			b.Place(Piece{Kind: kind, Color: color, Pos: core.Square{Row: r, Col: file}})
			file++
		}
		if file != core.BoardSize {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", 8-r, file)
		}
	}

	return b, nil
}

func pieceFromLetter(ch byte) (core.PieceKind, core.Color, bool) {
	color := core.ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = core.ColorWhite
		ch += 'a' - 'A'
	}
	switch ch {
	case 'p':
		return core.KindPawn, color, true
	case 'n':
		return core.KindKnight, color, true
	case 'b':
		return core.KindBishop, color, true
	case 'r':
		return core.KindRook, color, true
	case 'q':
		return core.KindQueen, color, true
	case 'k':
		return core.KindKing, color, true
	}
	return core.KindEmpty, 0, false
}

// At returns the piece on sq, or an empty piece when sq is off the board
func (b *Board) At(sq core.Square) Piece {
	if !sq.Valid() {
		return Empty(sq)
	}
	return b.squares[sq.Row][sq.Col]
}

// Place puts p on the square named by p.Pos, replacing whatever was there
func (b *Board) Place(p Piece) {
	if !p.Pos.Valid() {
		return
	}
	if p.IsEmpty() {
		p = Empty(p.Pos)
	}
	b.squares[p.Pos.Row][p.Pos.Col] = p
}

func (b *Board) Remove(sq core.Square) {
	if !sq.Valid() {
		return
	}
	b.squares[sq.Row][sq.Col] = Empty(sq)
}

// Pieces returns every occupied square in row-major order
func (b *Board) Pieces() []Piece {
	var out []Piece
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			if p := b.squares[r][c]; !p.IsEmpty() {
				out = append(out, p)
			}
		}
	}
	return out
}

// Rows returns a copy of the grid, row by row
func (b *Board) Rows() [][]Piece {
	rows := make([][]Piece, core.BoardSize)
	for r := range rows {
		rows[r] = make([]Piece, core.BoardSize)
		copy(rows[r], b.squares[r][:])
	}
	return rows
}

// SameOccupancy reports whether both boards hold the same kind and color on every square
func (b *Board) SameOccupancy(o *Board) bool {
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			p, q := b.squares[r][c], o.squares[r][c]
			if p.Kind != q.Kind {
				return false
			}
			if !p.IsEmpty() && p.Color != q.Color {
				return false
			}
		}
	}
	return true
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < core.BoardSize; f++ {
			p := b.squares[r][f]
			sb.WriteString(fmt.Sprintf("%c ", p.Kind.Letter(p.Color)))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
