package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ivanoskov/intake_bot/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisUserStore хранит пользователей в одном множестве
type RedisUserStore struct {
	client *redis.Client
	key    string
}

func NewRedisUserStore(ctx context.Context, cfg config.RedisConfig) (*RedisUserStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = "intake:users"
	}
	return &RedisUserStore{client: rdb, key: key}, nil
}

func (s *RedisUserStore) InsertIfAbsent(ctx context.Context, userID int64) error {
	if err := s.client.SAdd(ctx, s.key, userID).Err(); err != nil {
		return fmt.Errorf("failed to save user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisUserStore) ListAll(ctx context.Context) ([]int64, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed user id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *RedisUserStore) Close() error {
	return s.client.Close()
}
