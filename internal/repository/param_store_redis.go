package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisParamStore struct {
	client *redis.Client
}

func NewRedisParamStore(client *redis.Client) ParamStore {
	return &redisParamStore{client: client}
}

func (s *redisParamStore) Get(ctx context.Context, path string) (string, bool, error) {
	val, err := s.client.Get(ctx, path).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisParamStore) Set(ctx context.Context, path, value string) error {
	return s.client.Set(ctx, path, value, 0).Err()
}
