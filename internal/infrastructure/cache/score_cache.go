package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
)

const (
	keyPrefix = "credit:score:"
	epochKey  = keyPrefix + "epoch"
)

// RedisScoreCache implements port.ScoreCache on Redis. Entries are keyed by
// customer, generation and day, so a new day never reads yesterday's score.
//
// A generation is "<epoch>.<customer counter>". Invalidate bumps the counter
// and InvalidateAll bumps the epoch; entries written under an older
// generation are unreachable and expire with their TTL.
type RedisScoreCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisScoreCache creates a cache whose entries expire after ttl.
func NewRedisScoreCache(client redis.UniversalClient, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func generationKey(customerID int64) string {
	return keyPrefix + "gen:" + strconv.FormatInt(customerID, 10)
}

func scoreKey(customerID int64, generation string, day civil.Date) string {
	return keyPrefix + strconv.FormatInt(customerID, 10) + ":" + generation + ":" + day.String()
}

func (c *RedisScoreCache) Generation(ctx context.Context, customerID int64) (string, error) {
	vals, err := c.client.MGet(ctx, epochKey, generationKey(customerID)).Result()
	if err != nil {
		return "", fmt.Errorf("redis read generation: %w", err)
	}
	return counter(vals[0]) + "." + counter(vals[1]), nil
}

func counter(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (c *RedisScoreCache) Get(ctx context.Context, customerID int64, generation string, day civil.Date) (port.ScoreSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, scoreKey(customerID, generation, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return port.ScoreSnapshot{}, false, nil
	}
	if err != nil {
		return port.ScoreSnapshot{}, false, fmt.Errorf("redis get score: %w", err)
	}

	var snap port.ScoreSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return port.ScoreSnapshot{}, false, fmt.Errorf("decode score snapshot: %w", err)
	}
	return snap, true, nil
}

func (c *RedisScoreCache) Set(ctx context.Context, customerID int64, generation string, day civil.Date, snapshot port.ScoreSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode score snapshot: %w", err)
	}
	if err := c.client.Set(ctx, scoreKey(customerID, generation, day), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set score: %w", err)
	}
	return nil
}

// Invalidate moves the given customers to a new generation and drops their
// cached days.
func (c *RedisScoreCache) Invalidate(ctx context.Context, customerIDs ...int64) error {
	if len(customerIDs) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range customerIDs {
			p.Incr(ctx, generationKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis bump generation: %w", err)
	}
	for _, id := range customerIDs {
		if err := c.deleteMatching(ctx, keyPrefix+strconv.FormatInt(id, 10)+":*"); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateAll moves every customer to a new generation and drops every
// cached score.
func (c *RedisScoreCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("redis bump epoch: %w", err)
	}
	return c.deleteMatching(ctx, keyPrefix+"[0-9]*")
}

func (c *RedisScoreCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NoopScoreCache is used when Redis is disabled. Every lookup misses.
type NoopScoreCache struct{}

func (NoopScoreCache) Generation(context.Context, int64) (string, error) { return "", nil }

func (NoopScoreCache) Get(context.Context, int64, string, civil.Date) (port.ScoreSnapshot, bool, error) {
	return port.ScoreSnapshot{}, false, nil
}

func (NoopScoreCache) Set(context.Context, int64, string, civil.Date, port.ScoreSnapshot) error {
	return nil
}

func (NoopScoreCache) Invalidate(context.Context, ...int64) error { return nil }

func (NoopScoreCache) InvalidateAll(context.Context) error { return nil }
