package archive

import (
	"fmt"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/rules"
)

// Validate checks every snapshot's shape and coordinates, then replays the moves
// from the standard opening and re-checks each against the movement rules.
//
// A step whose source square is empty on the replay board is not re-checked; the
// replay continues from that step's recorded snapshot. Finally the recorded side
// to move must follow from the last step.
func Validate(doc *Document) error {
	for i, st := range doc.Steps {
		if err := checkShape(i+1, st); err != nil {
			return err
		}
		if err := checkOccupants(i+1, st); err != nil {
			return err
		}
	}

	replay := board.NewStandard()
	for i, st := range doc.Steps {
		step := i + 1
		recorded := st.snapshot()

		if !st.From.Valid() || !st.To.Valid() {
			return illegalMove(step, 0, core.KindEmpty, st.From, st.To)
		}
		mover := replay.At(st.From)
		if mover.IsEmpty() {
			*replay = *recorded
			continue
		}
		if !rules.CanMoveTo(replay, mover, st.To) {
			return illegalMove(step, mover.Color, mover.Kind, st.From, st.To)
		}

		replay.ApplyMove(st.From, st.To)
		if !replay.SameOccupancy(recorded) {
			return &Error{
				Code:   core.ErrSnapshotMismatch,
				Step:   step,
				Detail: fmt.Sprintf("replayed %s, recorded %s", replay.FEN(), recorded.FEN()),
			}
		}
	}

	return checkTurn(doc)
}

// checkTurn requires the recorded side to move to be the opponent of the last
// step's mover, or WHITE for an empty game. An absent color is derived on load.
func checkTurn(doc *Document) error {
	if doc.ColorToMove == 0 {
		return nil
	}
	want := core.ColorWhite
	if n := len(doc.Steps); n > 0 {
		last := doc.Steps[n-1]
		want = last.snapshot().At(last.To).Color.Opposite()
	}
	if doc.ColorToMove != want {
		return &Error{
			Code:   core.ErrTurnMismatch,
			Step:   len(doc.Steps),
			Detail: fmt.Sprintf("%s to move recorded, %s expected", doc.ColorToMove, want),
		}
	}
	return nil
}

func checkShape(step int, st StepDoc) error {
	if len(st.Board) != core.BoardSize {
		return &Error{
			Code:   core.ErrMalformedBoardSize,
			Step:   step,
			Detail: fmt.Sprintf("expected %d rows, got %d", core.BoardSize, len(st.Board)),
		}
	}
	for r, row := range st.Board {
		if len(row) != core.BoardSize {
			return &Error{
				Code:   core.ErrMalformedBoardSize,
				Step:   step,
				Detail: fmt.Sprintf("row %d has %d columns", r, len(row)),
			}
		}
	}
	return nil
}

func checkOccupants(step int, st StepDoc) error {
	seen := make(map[core.Square]bool, core.BoardSize*core.BoardSize)
	for _, row := range st.Board {
		for _, cell := range row {
			sq := core.Square{Row: cell.Row, Col: cell.Col}
			if seen[sq] {
				return &Error{
					Code:   core.ErrDuplicateOccupant,
					Step:   step,
					Detail: fmt.Sprintf("two entries at (%d,%d)", sq.Row, sq.Col),
				}
			}
			seen[sq] = true
		}
	}

	for r, row := range st.Board {
		for c, cell := range row {
			if cell.Row != r || cell.Col != c {
				return &Error{
					Code:   core.ErrMisplacedPiece,
					Step:   step,
					Detail: fmt.Sprintf("entry at (%d,%d) reports (%d,%d)", r, c, cell.Row, cell.Col),
				}
			}
		}
	}
	return nil
}
