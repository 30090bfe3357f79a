package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

const fileExt = ".json"

// FileStore keeps one JSON document per archive. An ID is either a bare name
// resolved inside dir, or a path ending in .json.
type FileStore struct {
	dir          string
	healthStatus atomic.Bool
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	s := &FileStore{dir: dir}
	s.healthStatus.Store(true)
	return s, nil
}

// Resolve maps an archive ID to its file path
func (s *FileStore) Resolve(id string) string {
	if strings.HasSuffix(id, fileExt) {
		if filepath.IsAbs(id) {
			return id
		}
		return filepath.Join(s.dir, id)
	}
	return filepath.Join(s.dir, id+fileExt)
}

// Save writes the document in place. A failed write may leave a partial file.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	path := s.Resolve(rec.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.healthStatus.Store(false)
		return fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.WriteFile(path, rec.Document, 0o644); err != nil {
		s.healthStatus.Store(false)
		return fmt.Errorf("write archive: %w", err)
	}
	// List reads SavedAt back from the modification time
	if !rec.SavedAt.IsZero() {
		_ = os.Chtimes(path, rec.SavedAt, rec.SavedAt)
	}
	s.healthStatus.Store(true)
	return nil
}

func (s *FileStore) Load(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.Resolve(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return data, nil
}

// fileHeader is the subset of a document List needs
type fileHeader struct {
	Steps       []json.RawMessage `json:"steps"`
	ColorToMove string            `json:"colorToMove"`
}

// List scans dir for documents, most recently modified first. Files that do not
// parse are skipped.
func (s *FileStore) List(_ context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var h fileHeader
		if err := json.Unmarshal(data, &h); err != nil {
			continue
		}
		records = append(records, Record{
			ID:          strings.TrimSuffix(e.Name(), fileExt),
			SavedAt:     info.ModTime().UTC(),
			Steps:       len(h.Steps),
			ColorToMove: h.ColorToMove,
		})
	}

	sortBySavedAt(records)
	return records, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.Resolve(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

func (s *FileStore) IsHealthy() bool {
	return s.healthStatus.Load()
}

func (s *FileStore) Close() error {
	return nil
}
