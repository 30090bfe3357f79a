package core

import (
	"fmt"
	"strings"
)

// BoardSize is the number of rows and columns on the board
const BoardSize = 8

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "WHITE"
	case ColorBlack:
		return "BLACK"
	default:
		return "-"
	}
}

// Short returns the single letter form used in prompts and responses
func (c Color) Short() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

func (c Color) MarshalText() ([]byte, error) {
	if c != ColorWhite && c != ColorBlack {
		return nil, fmt.Errorf("invalid color: %d", c)
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "WHITE", "W":
		*c = ColorWhite
	case "BLACK", "B":
		*c = ColorBlack
	default:
		return fmt.Errorf("invalid color: %q", text)
	}
	return nil
}

type PieceKind byte

const (
	KindEmpty PieceKind = iota
	KindPawn
	KindKnight
	KindBishop
	KindRook
	KindQueen
	KindKing
)

var kindNames = [...]string{
	KindEmpty:  "EMPTY",
	KindPawn:   "PAWN",
	KindKnight: "KNIGHT",
	KindBishop: "BISHOP",
	KindRook:   "ROOK",
	KindQueen:  "QUEEN",
	KindKing:   "KING",
}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Letter returns the FEN letter for the kind, upper case for white
func (k PieceKind) Letter(c Color) byte {
	var l byte
	switch k {
	case KindPawn:
		l = 'p'
	case KindKnight:
		l = 'n'
	case KindBishop:
		l = 'b'
	case KindRook:
		l = 'r'
	case KindQueen:
		l = 'q'
	case KindKing:
		l = 'k'
	default:
		return '.'
	}
	if c == ColorWhite {
		l -= 'a' - 'A'
	}
	return l
}

func (k PieceKind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid piece kind: %d", k)
	}
	return []byte(kindNames[k]), nil
}

func (k *PieceKind) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for i, n := range kindNames {
		if n == name {
			*k = PieceKind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid piece kind: %q", text)
}

// Square addresses a board cell; row 0 is black's back rank
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// String renders the square in algebraic form, e.g. (6,4) is "e2"
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+s.Col, '8'-s.Row)
}

// ParseSquare converts algebraic notation such as "e2" into a Square
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	return Square{Row: int('8' - s[1]), Col: int(s[0] - 'a')}, nil
}
