package game

import (
	"errors"
	"fmt"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/history"
	"chessarchive/internal/rules"
)

var (
	ErrNoPiece     = errors.New("no piece at source square")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("illegal move")
)

// MoveResult tracks the outcome of a move
type MoveResult struct {
	From     core.Square
	To       core.Square
	Player   core.Color
	Captured board.Piece
}

// Game is one play session. It owns its board and history and is not safe for
// concurrent use.
type Game struct {
	board      board.Board
	history    *history.History
	tasks      *taskQueue
	lastResult *MoveResult
}

func New() *Game {
	return FromHistory(history.New())
}

// FromHistory starts a session positioned at the end of h
func FromHistory(h *history.History) *Game {
	return &Game{
		board:   h.CurrentBoard(),
		history: h,
		tasks:   newTaskQueue(),
	}
}

// Move validates and plays a move for the side to move
func (g *Game) Move(from, to core.Square) (*MoveResult, error) {
	p := g.board.At(from)
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if p.Color != g.history.ColorToMove() {
		return nil, fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.history.ColorToMove())
	}
	if !rules.CanMoveTo(&g.board, p, to) {
		return nil, fmt.Errorf("%w: %s %s %s -> %s", ErrIllegalMove, p.Color, p.Kind, from, to)
	}

	captured := g.board.ApplyMove(from, to)
	g.history.RecordMove(&g.board, from, to)

	g.lastResult = &MoveResult{From: from, To: to, Player: p.Color, Captured: captured}
	g.tasks.step()
	return g.lastResult, nil
}

// Undo rewinds one step; the first recorded step is never removed
func (g *Game) Undo() board.Board {
	g.board = g.history.Undo()
	g.lastResult = nil
	return g.board
}

// Board returns a copy of the current board
func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) Turn() core.Color {
	return g.history.ColorToMove()
}

func (g *Game) HasSteps() bool {
	return g.history.HasSteps()
}

func (g *Game) History() *history.History {
	return g.history
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// After schedules fn to run once n more moves have completed and returns a task ID
func (g *Game) After(n int, fn func()) string {
	return g.tasks.add(n, fn)
}

// Cancel removes a pending task; it reports whether the task was still pending
func (g *Game) Cancel(id string) bool {
	return g.tasks.remove(id)
}

func (g *Game) PendingTasks() int {
	return len(g.tasks.items)
}
