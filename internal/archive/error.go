package archive

import (
	"errors"
	"fmt"

	"chessarchive/internal/core"
)

// Error is a typed archive failure. Code is one of the core archive error codes.
type Error struct {
	Code   string
	Detail string
	Step   int // 1-based, 0 when the failure is not tied to a step

	// Set for ILLEGAL_MOVE
	Color core.Color
	Piece core.PieceKind
	From  core.Square
	To    core.Square

	Err error
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Step > 0 {
		msg = fmt.Sprintf("%s at step %d", msg, e.Step)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code extracts the archive error code from err, or "" when err is not an *Error
func Code(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func illegalMove(step int, p core.Color, kind core.PieceKind, from, to core.Square) *Error {
	return &Error{
		Code: core.ErrIllegalMove,
		Detail: fmt.Sprintf("%s %s (%d,%d) -> (%d,%d)",
			p, kind, from.Row, from.Col, to.Row, to.Col),
		Step:  step,
		Color: p,
		Piece: kind,
		From:  from,
		To:    to,
	}
}
