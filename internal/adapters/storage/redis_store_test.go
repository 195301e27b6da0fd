package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestHistoryKey(t *testing.T) {
	assert.Equal(t, "history:alice", historyKey("alice"))
}

func TestNewRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))

	_, err = NewRedisStore("127.0.0.1:1", zap.NewNop())
	assert.Error(t, err)
}

func TestRedisStore_ListMostRecentFirst(t *testing.T) {
	store, _ := newTestRedisStore(t)
	appendScans(t, store, "alice", 5)

	got, err := store.List(context.Background(), "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"email 4", "email 3", "email 2"}, snippets(got))
}

func TestRedisStore_UserIsolation(t *testing.T) {
	store, _ := newTestRedisStore(t)
	appendScans(t, store, "alice", 2)
	appendScans(t, store, "bob", 1)

	alice, err := store.List(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"email 1", "email 0"}, snippets(alice))

	bob, err := store.List(context.Background(), "bob", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"email 0"}, snippets(bob))
}

func TestRedisStore_EmptyHistory(t *testing.T) {
	store, _ := newTestRedisStore(t)

	tests := []struct {
		name  string
		user  string
		limit int
	}{
		{"Unknown user", "nobody", 10},
		{"Zero limit", "alice", 0},
	}

	appendScans(t, store, "alice", 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(context.Background(), tt.user, tt.limit)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestRedisStore_NeverDropsEntries(t *testing.T) {
	store, mr := newTestRedisStore(t)
	appendScans(t, store, "alice", 1005)

	n, err := store.rdb.LLen(context.Background(), historyKey("alice")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1005), n)
	assert.Zero(t, mr.TTL(historyKey("alice")), "history must not expire")
}

func TestRedisStore_SkipsUnreadableEntries(t *testing.T) {
	store, mr := newTestRedisStore(t)
	appendScans(t, store, "alice", 1)
	_, err := mr.Lpush(historyKey("alice"), "{not json")
	require.NoError(t, err)

	got, err := store.List(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"email 0"}, snippets(got))
}
