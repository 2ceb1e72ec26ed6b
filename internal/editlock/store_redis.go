package editlock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// refreshScript extends the TTL only while the caller still holds the lease,
// and releaseScript deletes only the caller's own lease. Both run server-side
// so the holder check and the write are a single step.
var (
	refreshScript = redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		end
		return 0
	`)
	releaseScript = redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0
	`)
)

// RedisStore is the production lease backend. Expiry is delegated to Redis
// key TTLs, so leases vanish on their own with no sweeper.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, string, error) {
	ok, err := s.client.SetNX(ctx, key, holder, ttl).Result()
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, holder, nil
	}

	current, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// Lease expired between SETNX and GET; caller retries via Acquire.
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return false, current, nil
}

func (s *RedisStore) Refresh(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	n, err := refreshScript.Run(ctx, s.client, []string{key}, holder, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Release(ctx context.Context, key, holder string) (bool, error) {
	n, err := releaseScript.Run(ctx, s.client, []string{key}, holder).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Holder(ctx context.Context, key string) (string, bool, error) {
	holder, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return holder, true, nil
}
