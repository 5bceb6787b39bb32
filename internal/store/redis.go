package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string // hash holding one field per user
}

// RedisStore keeps preferences in a single hash: field = user id, value = JSON record.
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	key := opts.Key
	if key == "" {
		key = "forecast-bot:users"
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (domain.Preferences, error) {
	raw, err := s.client.HGet(ctx, s.key, strconv.FormatInt(userID, 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Preferences{}, nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	var p domain.Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Preferences{}, fmt.Errorf("decode user %d: %w", userID, err)
	}
	return p, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, p domain.Preferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, strconv.FormatInt(userID, 10), raw).Err()
}

func (s *RedisStore) List(ctx context.Context) (map[int64]domain.Preferences, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	res := make(map[int64]domain.Preferences, len(all))
	for k, v := range all {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		var p domain.Preferences
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		res[id] = p
	}
	return res, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
