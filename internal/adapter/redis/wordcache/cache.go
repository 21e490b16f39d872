// Package wordcache stores merged word records in Redis.
package wordcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wiktapi/internal/config"
	"github.com/heartmarshall/wiktapi/internal/domain"
)

const purgeBatch = 500

// Cache is a read-through cache of lookups keyed by (edition, category, word).
type Cache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, cfg config.CacheConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// New wraps an existing client.
func New(rdb *goredis.Client, ttl time.Duration, prefix string) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Key builds the cache key of a lookup. Categories come from a closed set and
// editions are dump file names, so the separator cannot collide.
func (c *Cache) Key(q domain.WordQuery) string {
	return c.prefix + q.Edition + ":" + q.Category + ":" + q.Word
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, q domain.WordQuery) (*domain.WordRecord, error) {
	raw, err := c.rdb.Get(ctx, c.Key(q)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec domain.WordRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A stale or foreign value is treated as a miss and overwritten on Set.
		return nil, nil
	}
	return &rec, nil
}

// Set stores rec for the configured TTL.
func (c *Cache) Set(ctx context.Context, q domain.WordQuery, rec *domain.WordRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := c.rdb.Set(ctx, c.Key(q), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Purge removes every key under the cache prefix and reports how many were
// removed. Run it after an import so lookups see the new data.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", purgeBatch).Iterator()

	var removed int
	batch := make([]string, 0, purgeBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.rdb.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == purgeBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}
	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
