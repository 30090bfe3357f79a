package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/history"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		typ  CommandType
		args []string
	}{
		{"", CmdNone, nil},
		{"   ", CmdNone, nil},
		{"new", CmdNew, nil},
		{"e2e4", CmdMove, []string{"e2", "e4"}},
		{"E2E4", CmdMove, []string{"e2", "e4"}},
		{"e2 e4", CmdMove, []string{"e2", "e4"}},
		{"save", CmdSave, []string{}},
		{"save games/a.json", CmdSave, []string{"games/a.json"}},
		{"load a", CmdLoad, []string{"a"}},
		{"ls", CmdList, nil},
		{"autosave 3 x", CmdAutosave, []string{"3", "x"}},
		{"color gray", CmdColor, []string{"gray"}},
		{"fen", CmdFEN, nil},
		{"history", CmdHistory, nil},
		{"?", CmdHelp, nil},
		{"exit", CmdQuit, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd := ParseCommand(tt.in)
			if cmd.Type != tt.typ {
				t.Fatalf("type = %d, want %d", cmd.Type, tt.typ)
			}
			if tt.args != nil && strings.Join(cmd.Args, ",") != strings.Join(tt.args, ",") {
				t.Errorf("args = %v, want %v", cmd.Args, tt.args)
			}
		})
	}
}

func TestGetCommandEOF(t *testing.T) {
	c := New(NewScannerReader(strings.NewReader("")), io.Discard)
	cmd, err := c.GetCommand()
	if err != nil || cmd.Type != CmdQuit {
		t.Errorf("EOF = %+v, %v", cmd, err)
	}
}

func TestDisplayBoard(t *testing.T) {
	var out bytes.Buffer
	c := New(NewScannerReader(strings.NewReader("")), &out)
	c.DisplayBoard(board.NewStandard())

	if !strings.Contains(out.String(), "8 r n b q k b n r  8") {
		t.Errorf("plain board:\n%s", out.String())
	}

	out.Reset()
	if err := c.SetTheme(ThemeBrown); err != nil {
		t.Fatal(err)
	}
	c.DisplayBoard(board.NewStandard())
	if !strings.Contains(out.String(), "\033[48;5;94m") {
		t.Error("themed board has no background escape")
	}
}

func TestShowGameHistory(t *testing.T) {
	h := history.New()
	b := h.CurrentBoard()
	for _, m := range [][2]core.Square{
		{{Row: 6, Col: 4}, {Row: 4, Col: 4}},
		{{Row: 1, Col: 4}, {Row: 3, Col: 4}},
		{{Row: 7, Col: 6}, {Row: 5, Col: 5}},
	} {
		b.ApplyMove(m[0], m[1])
		h.RecordMove(&b, m[0], m[1])
	}

	var out bytes.Buffer
	c := New(NewScannerReader(strings.NewReader("")), &out)
	c.ShowGameHistory(h.Steps())

	want := "1. e2-e4 | e7-e5\n2. g1-f3\n"
	if out.String() != want {
		t.Errorf("history = %q, want %q", out.String(), want)
	}
}

func TestDefaultThemeNotTerminal(t *testing.T) {
	// -1 is never a terminal
	if DefaultTheme(-1) != ThemeOff {
		t.Error("non-terminal got a colored theme")
	}
}
