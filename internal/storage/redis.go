package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "archive:"
	redisIndexKey  = "archive:index"
)

// RedisStore keeps each archive in a hash and tracks IDs in a set
type RedisStore struct {
	rdb          *redis.Client
	ttl          time.Duration
	healthStatus atomic.Bool
}

// NewRedisStore connects using a redis:// URL. ttl <= 0 keeps archives forever.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis URL required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreFromClient(rdb, ttl), nil
}

func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	s := &RedisStore{rdb: rdb, ttl: ttl}
	s.healthStatus.Store(true)
	return s
}

func (s *RedisStore) key(id string) string { return redisKeyPrefix + strings.TrimSpace(id) }

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	rec.ID = strings.TrimSpace(rec.ID)
	key := s.key(rec.ID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"document":      rec.Document,
			"created_at":    rec.CreatedAt.UTC().Format(time.RFC3339Nano),
			"saved_at":      rec.SavedAt.UTC().Format(time.RFC3339Nano),
			"step_count":    rec.Steps,
			"color_to_move": rec.ColorToMove,
			"fen":           rec.FEN,
		})
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		pipe.SAdd(ctx, redisIndexKey, rec.ID)
		return nil
	})
	s.healthStatus.Store(err == nil)
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	raw, err := s.rdb.HGet(ctx, s.key(id), "document").Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}
	return raw, nil
}

// List returns archive metadata; IDs whose hash expired are pruned from the index
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	ids, err := s.rdb.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	var records []Record
	for _, id := range ids {
		fields, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis list: %w", err)
		}
		if len(fields) == 0 {
			_ = s.rdb.SRem(ctx, redisIndexKey, id).Err()
			continue
		}
		r := Record{
			ID:          id,
			ColorToMove: fields["color_to_move"],
			FEN:         fields["fen"],
		}
		r.Steps, _ = strconv.Atoi(fields["step_count"])
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
		r.SavedAt, _ = time.Parse(time.RFC3339Nano, fields["saved_at"])
		records = append(records, r)
	}

	sortBySavedAt(records)
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	_ = s.rdb.SRem(ctx, redisIndexKey, id).Err()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *RedisStore) IsHealthy() bool {
	return s.healthStatus.Load()
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
