package sessionstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo/portal/core/session"
)

const redisKeyPrefix = "portal:"

type redisStorage struct {
	client *redis.Client
}

var _ session.Storage = (*redisStorage)(nil)

// NewRedisStorage shares sessions between machines through redis. Keys never expire:
// the LMS API is the authority on token validity.
func NewRedisStorage(client *redis.Client) session.Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "redis get")
	}
	return data, nil
}

func (s *redisStorage) Save(ctx context.Context, key string, data []byte) error {
	return errors.Wrap(s.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(), "redis set")
}

func (s *redisStorage) Delete(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Del(ctx, redisKeyPrefix+key).Err(), "redis del")
}
