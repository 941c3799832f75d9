package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventspark/models"

	"github.com/redis/go-redis/v9"
)

const eventsVersionKey = "events:version"

// EventCache stores event listings under keys that embed a version counter.
// Bumping the counter orphans every listing at once; orphans expire by TTL.
type EventCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewEventCache(rdb redis.Cmdable, ttl time.Duration) *EventCache {
	return &EventCache{rdb: rdb, ttl: ttl}
}

// Key resolves the cache key for a listing scope under the current version.
// Read the key once and use it for both Get and Set so a listing computed
// before an invalidation never lands under the new version.
func (c *EventCache) Key(ctx context.Context, scope string) (string, error) {
	version, err := c.rdb.Get(ctx, eventsVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return "", fmt.Errorf("read events version: %w", err)
	}
	return fmt.Sprintf("events:list:v%s:%s", version, scope), nil
}

func (c *EventCache) Get(ctx context.Context, key string) ([]models.Event, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var events []models.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false, fmt.Errorf("decode cached events: %w", err)
	}
	return events, true, nil
}

func (c *EventCache) Set(ctx context.Context, key string, events []models.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops every cached listing.
func (c *EventCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, eventsVersionKey).Err()
}
