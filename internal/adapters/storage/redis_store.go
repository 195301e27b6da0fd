package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

// RedisStore implements ports.HistoryStore with one Redis list per user
//
// New scans are pushed to the head of "history:<user_id>", so LRANGE from 0
// reads them most recent first. Lists are never trimmed and never expire.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis at addr and checks the connection
func NewRedisStore(addr string, logger *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return newRedisStore(rdb, logger), nil
}

func newRedisStore(rdb *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger}
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}

// Append pushes a scan to the head of the user's list
func (s *RedisStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	serialized, err := json.Marshal(entry.ScanResponse)
	if err != nil {
		return fmt.Errorf("could not serialize scan response: %w", err)
	}

	if err := s.rdb.LPush(ctx, historyKey(entry.UserID), serialized).Err(); err != nil {
		return fmt.Errorf("failed to add history entry to redis: %w", err)
	}
	return nil
}

// List returns up to limit scans of the user, most recent first
func (s *RedisStore) List(ctx context.Context, userID string, limit int) ([]domain.ScanResponse, error) {
	responses := make([]domain.ScanResponse, 0)
	if limit <= 0 {
		return responses, nil
	}

	raw, err := s.rdb.LRange(ctx, historyKey(userID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	for _, item := range raw {
		var resp domain.ScanResponse
		if err := json.Unmarshal([]byte(item), &resp); err != nil {
			s.logger.Warn("Skipping unreadable history entry", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
