package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the cache with a Redis instance, for sharing check
// results between machines or CI runs. Expiry is still enforced by the Cache
// layer from the deadline embedded in each entry; Redis only holds bytes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store over client. prefix namespaces the keys
// (e.g. "pkgscout:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(key string) ([]byte, bool, error) {
	raw, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisStore) Set(key string, value []byte) error {
	// SET is atomic per key; no expiration here, the entry carries its own.
	return s.client.Set(context.Background(), s.prefix+key, value, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(context.Background(), s.prefix+key).Err()
}
