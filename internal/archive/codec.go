package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"chessarchive/internal/core"
	"chessarchive/internal/history"
)

// Encode writes h as an indented JSON document
func Encode(w io.Writer, h *history.History) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromHistory(h)); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

func Marshal(h *history.History) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a document without validating it
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &Error{Code: core.ErrDocumentUnreadable, Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &Error{Code: core.ErrDocumentUnreadable, Detail: "trailing data after document"}
	}
	for i, st := range doc.Steps {
		for _, row := range st.Board {
			for _, cell := range row {
				if cell.Kind != core.KindEmpty && cell.Color == nil {
					return nil, &Error{
						Code:   core.ErrDocumentUnreadable,
						Step:   i + 1,
						Detail: fmt.Sprintf("%s at (%d,%d) has no color", cell.Kind, cell.Row, cell.Col),
					}
				}
			}
		}
	}
	return &doc, nil
}

// Load decodes and validates a document. On any failure no history is returned.
func Load(r io.Reader) (*history.History, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc.History(), nil
}

func Unmarshal(data []byte) (*history.History, error) {
	return Load(bytes.NewReader(data))
}
