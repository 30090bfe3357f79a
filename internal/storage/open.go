package storage

import (
	"fmt"
	"time"
)

const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a backend
type Options struct {
	Backend  string
	Dir      string // file backend
	DSN      string // sqlite path or postgres URL
	RedisURL string
	TTL      time.Duration
	DevMode  bool
}

// Open builds the configured store. BackendNone returns a nil store.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendFile:
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite, BackendPostgres:
		driver := DriverSQLite
		if opts.Backend == BackendPostgres {
			driver = DriverPostgres
		}
		s, err := NewSQLStore(driver, opts.DSN, opts.DevMode)
		if err != nil {
			return nil, err
		}
		if err := s.InitDB(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedisStore(opts.RedisURL, opts.TTL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
