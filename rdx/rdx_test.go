package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"eventspark/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCacheMissThenHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	cache := NewEventCache(rdb, time.Minute)
	ctx := context.Background()

	mock.ExpectGet(eventsVersionKey).RedisNil()
	key, err := cache.Key(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, "events:list:v0:all", key)

	mock.ExpectGet(key).RedisNil()
	_, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	events := []models.Event{{EventID: "ev-1", Name: "Gig", TotalSeats: 10}}
	data, _ := json.Marshal(events)
	mock.ExpectSet(key, data, time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, key, events))

	mock.ExpectGet(key).SetVal(string(data))
	got, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Gig", got[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCacheInvalidateMovesKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	cache := NewEventCache(rdb, time.Minute)
	ctx := context.Background()

	mock.ExpectIncr(eventsVersionKey).SetVal(4)
	require.NoError(t, cache.Invalidate(ctx))

	mock.ExpectGet(eventsVersionKey).SetVal("4")
	key, err := cache.Key(ctx, "user:2030-01-01")
	require.NoError(t, err)
	assert.Equal(t, "events:list:v4:user:2030-01-01", key)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCacheVersionError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	mock.ExpectGet(eventsVersionKey).SetErr(errors.New("connection refused"))
	_, err := NewEventCache(rdb, time.Minute).Key(context.Background(), "all")
	assert.Error(t, err)
}

func TestLocker(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	locker := NewLocker(rdb)
	locker.newToken = func() string { return "tok-1" }
	ctx := context.Background()

	mock.ExpectSetNX("payment_lock:b1", "tok-1", 10*time.Second).SetVal(true)
	token, ok, err := locker.Acquire(ctx, "payment_lock:b1", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	mock.ExpectSetNX("payment_lock:b1", "tok-1", 10*time.Second).SetVal(false)
	token, ok, err = locker.Acquire(ctx, "payment_lock:b1", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	mock.ExpectEvalSha(releaseScript.Hash(), []string{"payment_lock:b1"}, "tok-1").SetVal(int64(1))
	require.NoError(t, locker.Release(ctx, "payment_lock:b1", "tok-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockerReleaseLeavesOtherHoldersLock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	locker := NewLocker(rdb)
	tokens := []string{"tok-a", "tok-b"}
	locker.newToken = func() string {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok
	}
	ctx := context.Background()

	mock.ExpectSetNX("payment_lock:b1", "tok-a", time.Second).SetVal(true)
	tokA, ok, err := locker.Acquire(ctx, "payment_lock:b1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// A's lock expired and B took the key
	mock.ExpectSetNX("payment_lock:b1", "tok-b", time.Second).SetVal(true)
	_, ok, err = locker.Acquire(ctx, "payment_lock:b1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// the script sees tok-b stored and deletes nothing
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"payment_lock:b1"}, tokA).SetVal(int64(0))
	assert.ErrorIs(t, locker.Release(ctx, "payment_lock:b1", tokA), ErrLockNotHeld)

	require.NoError(t, mock.ExpectationsWereMet())
}
