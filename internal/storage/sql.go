package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLStore keeps archives in a SQL database (SQLite or PostgreSQL)
type SQLStore struct {
	db           *sql.DB
	driver       string
	path         string
	healthStatus atomic.Bool
}

// NewSQLStore opens the database. devMode enables WAL for SQLite.
func NewSQLStore(driver, dataSourceName string, devMode bool) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// Enable WAL mode in development for better concurrency
		if devMode {
			if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
			}
		}
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
	}

	s := &SQLStore{db: db, driver: driver, path: dataSourceName}
	s.healthStatus.Store(true)
	return s, nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// IsHealthy reports whether the last write succeeded
func (s *SQLStore) IsHealthy() bool {
	return s.healthStatus.Load()
}

// InitDB creates the database schema
func (s *SQLStore) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return tx.Commit()
}

// Save upserts an archive inside a transaction
func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := s.rebind(`INSERT INTO archives (
			archive_id, created_at, saved_at, step_count, color_to_move, fen, document
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (archive_id) DO UPDATE SET
			saved_at = excluded.saved_at,
			step_count = excluded.step_count,
			color_to_move = excluded.color_to_move,
			fen = excluded.fen,
			document = excluded.document`)

		_, err := tx.ExecContext(ctx, query,
			rec.ID, rec.CreatedAt.UTC(), rec.SavedAt.UTC(), rec.Steps,
			rec.ColorToMove, rec.FEN, string(rec.Document),
		)
		return err
	})
	s.healthStatus.Store(err == nil)
	return err
}

func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("write operation failed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, id string) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT document FROM archives WHERE archive_id = ?`), id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return []byte(doc), nil
}

// List retrieves archive metadata, most recently saved first
func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	return s.Query(ctx, "")
}

// Query retrieves archives with optional ID filtering; "" or "*" selects all
func (s *SQLStore) Query(ctx context.Context, id string) ([]Record, error) {
	query := `SELECT
		archive_id, created_at, saved_at, step_count, color_to_move, fen
	FROM archives WHERE 1=1`

	var args []interface{}
	if id != "" && id != "*" {
		query += " AND archive_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY saved_at DESC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.SavedAt, &r.Steps, &r.ColorToMove, &r.FEN); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM archives WHERE archive_id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DeleteDB removes the SQLite file, or drops the table on PostgreSQL
func (s *SQLStore) DeleteDB() error {
	if s.driver == DriverPostgres {
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS archives`); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
		return s.Close()
	}

	// Close connection first
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// ☣ DESTRUCTIVE: Removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}
