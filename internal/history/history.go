package history

import (
	"time"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
)

// Step is one completed move and the board immediately after it
type Step struct {
	From  core.Square
	To    core.Square
	Board board.Board
}

// Mover returns the color of the piece that made the move
func (s Step) Mover() core.Color {
	return s.Board.At(s.To).Color
}

type History struct {
	createdAt   time.Time
	steps       []Step
	colorToMove core.Color
	path        string
}

func New() *History {
	return &History{
		createdAt:   time.Now().UTC(),
		colorToMove: core.ColorWhite,
	}
}

// Restore rebuilds a history from persisted parts. Steps are copied.
func Restore(createdAt time.Time, steps []Step, colorToMove core.Color) *History {
	h := &History{
		createdAt:   createdAt,
		steps:       append([]Step(nil), steps...),
		colorToMove: colorToMove,
	}
	if h.colorToMove == 0 {
		h.colorToMove = h.derivedColorToMove()
	}
	return h
}

// RecordMove appends a step holding a copy of after and hands the turn to the other side
func (h *History) RecordMove(after *board.Board, from, to core.Square) {
	step := Step{From: from, To: to, Board: *after}
	h.steps = append(h.steps, step)
	h.colorToMove = step.Mover().Opposite()
}

// Undo drops the last step unless it is the only one left, and returns the
// board the game is now at
func (h *History) Undo() board.Board {
	if len(h.steps) > 1 {
		h.steps = h.steps[:len(h.steps)-1]
		h.colorToMove = h.derivedColorToMove()
	}
	return h.CurrentBoard()
}

func (h *History) CurrentBoard() board.Board {
	if len(h.steps) == 0 {
		return *board.NewStandard()
	}
	return h.steps[len(h.steps)-1].Board
}

func (h *History) ColorToMove() core.Color {
	return h.colorToMove
}

func (h *History) HasSteps() bool {
	return len(h.steps) > 0
}

func (h *History) Len() int {
	return len(h.steps)
}

// Steps returns a copy of the recorded steps
func (h *History) Steps() []Step {
	return append([]Step(nil), h.steps...)
}

func (h *History) LastStep() (Step, bool) {
	if len(h.steps) == 0 {
		return Step{}, false
	}
	return h.steps[len(h.steps)-1], true
}

func (h *History) CreatedAt() time.Time {
	return h.createdAt
}

// Path is where the history was last saved or loaded from; empty when never persisted
func (h *History) Path() string {
	return h.path
}

func (h *History) SetPath(path string) {
	h.path = path
}

func (h *History) derivedColorToMove() core.Color {
	last, ok := h.LastStep()
	if !ok {
		return core.ColorWhite
	}
	return last.Mover().Opposite()
}
