package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/history"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdUndo
	CmdSave
	CmdLoad
	CmdList
	CmdAutosave
	CmdColor
	CmdFEN
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader is the input side of the view; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
}

type prompter interface {
	SetPrompt(string)
}

type CLI struct {
	input  LineReader
	output io.Writer
	theme  ColorTheme
	prompt string
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// DefaultTheme picks a colored theme only when fd is a terminal
func DefaultTheme(fd int) ColorTheme {
	if term.IsTerminal(fd) {
		return ThemeBrown
	}
	return ThemeOff
}

// scannerReader adapts a plain io.Reader for non-interactive use
type scannerReader struct {
	s *bufio.Scanner
}

func NewScannerReader(r io.Reader) LineReader {
	return &scannerReader{s: bufio.NewScanner(r)}
}

func (r *scannerReader) Readline() (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// GetCommand blocks for one line of input. EOF reads as quit and an
// interrupt as an empty command.
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return &Command{Type: CmdQuit}, nil
		case errors.Is(err, readline.ErrInterrupt):
			return &Command{Type: CmdNone}, nil
		}
		return nil, err
	}
	return ParseCommand(line), nil
}

func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Raw: input}
	case "save":
		return &Command{Type: CmdSave, Args: args, Raw: input}
	case "load":
		return &Command{Type: CmdLoad, Args: args, Raw: input}
	case "list", "ls":
		return &Command{Type: CmdList, Raw: input}
	case "autosave":
		return &Command{Type: CmdAutosave, Args: args, Raw: input}
	case "color":
		return &Command{Type: CmdColor, Args: args, Raw: input}
	case "fen":
		return &Command{Type: CmdFEN, Raw: input}
	case "history":
		return &Command{Type: CmdHistory, Raw: input}
	case "help", "?":
		return &Command{Type: CmdHelp, Raw: input}
	case "quit", "exit":
		return &Command{Type: CmdQuit, Raw: input}
	}

	// e2e4 or "e2 e4"
	if len(parts) == 1 && len(cmd) == 4 {
		return &Command{Type: CmdMove, Args: []string{cmd[:2], cmd[2:]}, Raw: input}
	}
	if len(parts) == 2 {
		return &Command{Type: CmdMove, Args: []string{cmd, strings.ToLower(parts[1])}, Raw: input}
	}
	return &Command{Type: CmdMove, Args: parts, Raw: input}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// ShowPrompt sets the readline prompt, or prints it for plain readers
func (c *CLI) ShowPrompt(prompt string) {
	c.prompt = prompt
	if p, ok := c.input.(prompter); ok {
		p.SetPrompt(prompt)
		return
	}
	fmt.Fprint(c.output, prompt)
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", core.BoardSize-r))
		for f := 0; f < core.BoardSize; f++ {
			p := b.At(core.Square{Row: r, Col: f})

			if c.theme == ThemeOff {
				if p.IsEmpty() {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", p.Kind.Letter(p.Color)))
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if p.IsEmpty() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.black
			if p.Color == core.ColorWhite {
				fg = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, p.Kind.Letter(p.Color), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", core.BoardSize-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new                 - Start a new game from the standard opening
  <from><to>          - Make a move (e.g., e2e4 or "e2 e4")
  undo                - Take back the last move (the first move stays)
  save [location]     - Save the game (default: last location)
  load <location>     - Load and verify a saved game
  list                - List saved games
  autosave <n> [loc]  - Save automatically every n moves
  fen                 - Print the current position as FEN
  color <theme>       - Set board color theme (off|brown|green|gray)
  history             - Show recorded moves
  quit/exit           - Exit the program
  help/?              - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, <move>, undo, save, load, list, history, fen, help/?, quit")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(steps []history.Step) {
	if len(steps) == 0 {
		c.ShowMessage("No moves recorded.")
		return
	}
	for i := 0; i < len(steps); i += 2 {
		line := fmt.Sprintf("%d. %s-%s", i/2+1, steps[i].From, steps[i].To)
		if i+1 < len(steps) {
			line += fmt.Sprintf(" | %s-%s", steps[i+1].From, steps[i+1].To)
		}
		c.ShowMessage(line)
	}
}

func (c *CLI) ShowMove(player core.Color, from, to core.Square, captured board.Piece) {
	msg := fmt.Sprintf("%s: %s-%s", player, from, to)
	if !captured.IsEmpty() {
		msg += fmt.Sprintf(" captures %s", captured.Kind)
	}
	c.ShowMessage(msg)
}
