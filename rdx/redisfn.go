package rdx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eventspark/utils"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and checks it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	log.Printf("[Redis] connected to %s db=%d", addr, db)
	return client, nil
}

// ErrLockNotHeld means the lock expired and may now belong to someone else.
var ErrLockNotHeld = errors.New("lock no longer held")

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker is a best-effort mutex on a Redis key. The TTL frees the key if the
// holder dies; each holder gets a token so it can only release its own lock.
type Locker struct {
	rdb      redis.Cmdable
	newToken func() string
}

func NewLocker(rdb redis.Cmdable) *Locker {
	return &Locker{rdb: rdb, newToken: utils.GetUUID}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}
