package storage

import (
	"context"
	"errors"
	"sort"
	"time"
)

var ErrNotFound = errors.New("archive not found")

// Record is one saved archive plus the metadata stores index it by
type Record struct {
	ID          string
	CreatedAt   time.Time
	SavedAt     time.Time
	Steps       int
	ColorToMove string
	FEN         string
	Document    []byte
}

// Store persists archive documents. Writes are synchronous: a returned error
// means the archive was not saved.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
	IsHealthy() bool
	Close() error
}

func sortBySavedAt(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].SavedAt.After(records[j].SavedAt)
	})
}
