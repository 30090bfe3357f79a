package core

import (
	"encoding/json"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"a8", Square{0, 0}, false},
		{"h1", Square{7, 7}, false},
		{"e2", Square{6, 4}, false},
		{" E4 ", Square{4, 4}, false},
		{"i1", Square{}, true},
		{"a9", Square{}, true},
		{"a", Square{}, true},
		{"", Square{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSquare(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSquare(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSquareString(t *testing.T) {
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			sq := Square{r, c}
			back, err := ParseSquare(sq.String())
			if err != nil || back != sq {
				t.Fatalf("square %v printed as %q parsed back to %v (%v)", sq, sq.String(), back, err)
			}
		}
	}
	if got := (Square{-1, 3}).String(); got != "(-1,3)" {
		t.Errorf("off-board square printed as %q", got)
	}
}

func TestColorText(t *testing.T) {
	data, err := json.Marshal(struct {
		C Color `json:"c"`
	}{ColorBlack})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"c":"BLACK"}` {
		t.Errorf("marshal = %s", data)
	}

	var c Color
	for _, in := range []string{"WHITE", "white", "w"} {
		if err := c.UnmarshalText([]byte(in)); err != nil || c != ColorWhite {
			t.Errorf("UnmarshalText(%q) = %v, %v", in, c, err)
		}
	}
	if err := c.UnmarshalText([]byte("GREEN")); err == nil {
		t.Error("expected error for unknown color")
	}
	if _, err := Color(0).MarshalText(); err == nil {
		t.Error("expected error marshaling zero color")
	}
	if ColorWhite.Opposite() != ColorBlack || ColorBlack.Opposite() != ColorWhite {
		t.Error("Opposite is not an involution")
	}
}

func TestPieceKindText(t *testing.T) {
	for k := KindEmpty; k <= KindKing; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", k, err)
		}
		var back PieceKind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Errorf("%s round-tripped to %v (%v)", text, back, err)
		}
	}

	var k PieceKind
	if err := k.UnmarshalText([]byte("DRAGON")); err == nil {
		t.Error("expected error for unknown kind")
	}
	if got := KindKnight.Letter(ColorWhite); got != 'N' {
		t.Errorf("white knight letter = %c", got)
	}
	if got := KindKnight.Letter(ColorBlack); got != 'n' {
		t.Errorf("black knight letter = %c", got)
	}
}
