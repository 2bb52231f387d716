package memory

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/ginny/core"
)

// DefaultRedisKeyPrefix prefixes the per-user preference lists.
const DefaultRedisKeyPrefix = "ginny:preferences:"

var _ core.PreferenceStore = (*RedisStore)(nil)

// RedisStore keeps one Redis list per user (RPUSH on Put, LRANGE on Get).
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr string) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: addr}))
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultRedisKeyPrefix}
}

func (s *RedisStore) key(userID string) string { return s.prefix + userID }

// Get returns all statements stored for userID.
func (s *RedisStore) Get(ctx context.Context, userID string) ([]string, error) {
	vals, err := s.client.LRange(ctx, s.key(userID), 0, -1).Result()
	if err != nil {
		return nil, core.NewProviderError("redis", "get", err)
	}
	return vals, nil
}

// Put appends statement to the user's list.
func (s *RedisStore) Put(ctx context.Context, userID, statement string) error {
	if err := s.client.RPush(ctx, s.key(userID), statement).Err(); err != nil {
		return core.NewProviderError("redis", "put", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return core.NewProviderError("redis", "ping", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
