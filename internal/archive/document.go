package archive

import (
	"time"

	"chessarchive/internal/board"
	"chessarchive/internal/core"
	"chessarchive/internal/history"
)

// Document is the persisted form of a history
type Document struct {
	CreatedAt   time.Time  `json:"createdAt"`
	Steps       []StepDoc  `json:"steps"`
	ColorToMove core.Color `json:"colorToMove"`
}

type StepDoc struct {
	From  core.Square `json:"from"`
	To    core.Square `json:"to"`
	Board [][]Cell    `json:"board"`
}

// Cell is one square of a snapshot. Color is omitted for empty squares.
type Cell struct {
	Kind      core.PieceKind `json:"kind"`
	Color     *core.Color    `json:"color,omitempty"`
	Row       int            `json:"row"`
	Col       int            `json:"col"`
	EnPassant bool           `json:"enPassant,omitempty"`
}

// FromHistory captures h as a document
func FromHistory(h *history.History) *Document {
	doc := &Document{
		CreatedAt:   h.CreatedAt(),
		ColorToMove: h.ColorToMove(),
	}
	for _, st := range h.Steps() {
		doc.Steps = append(doc.Steps, StepDoc{
			From:  st.From,
			To:    st.To,
			Board: cellsFromBoard(&st.Board),
		})
	}
	return doc
}

func cellsFromBoard(b *board.Board) [][]Cell {
	rows := b.Rows()
	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, p := range row {
			cell := Cell{Kind: p.Kind, Row: p.Pos.Row, Col: p.Pos.Col, EnPassant: p.EnPassant}
			if !p.IsEmpty() {
				color := p.Color
				cell.Color = &color
			}
			cells[r][c] = cell
		}
	}
	return cells
}

// snapshot converts the cells into a board. Cells are placed at their grid index;
// callers validate shape and coordinates first.
func (s StepDoc) snapshot() *board.Board {
	b := board.NewEmpty()
	for r, row := range s.Board {
		for c, cell := range row {
			if cell.Kind == core.KindEmpty || cell.Color == nil {
				continue
			}
			b.Place(board.Piece{
				Kind:      cell.Kind,
				Color:     *cell.Color,
				Pos:       core.Square{Row: r, Col: c},
				EnPassant: cell.EnPassant,
			})
		}
	}
	return b
}

// History converts a validated document into a history
func (d *Document) History() *history.History {
	steps := make([]history.Step, 0, len(d.Steps))
	for _, st := range d.Steps {
		steps = append(steps, history.Step{From: st.From, To: st.To, Board: *st.snapshot()})
	}
	return history.Restore(d.CreatedAt, steps, d.ColorToMove)
}
