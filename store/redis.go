package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"

	redisclient "text2phenotype.com/morphtag/redis"
)

const (
	redisKeyPrefix = "morphtag:"
	redisBatchSize = 1000
)

var ctx = context.Background()

// redisBackend keeps a table in one hash. A writer holds a lock for as long
// as the table is open and readers refuse to open while it is held.
type redisBackend struct {
	client         redis.UniversalClient
	key            string
	lock           *redislock.Lock
	lockExpiration time.Duration
	readOnly       bool
}

func openRedis(name string, mode Mode) (*redisBackend, error) {
	cfg, err := redisclient.ReadConfig()
	if err != nil {
		return nil, err
	}
	client := redisclient.NewUniversalClient(cfg)
	backend, err := newRedisBackend(client, name, mode, cfg.LockExpiration())
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return backend, nil
}

func newRedisBackend(client redis.UniversalClient, name string, mode Mode, lockExpiration time.Duration) (*redisBackend, error) {
	backend := &redisBackend{
		client:         client,
		key:            redisKeyPrefix + name,
		lockExpiration: lockExpiration,
		readOnly:       mode != ModeCreate,
	}
	if mode != ModeCreate {
		n, err := client.Exists(ctx, backend.lockKey()).Result()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrLocked
		}
		return backend, nil
	}

	lock, err := redislock.New(client).Obtain(ctx, backend.lockKey(), lockExpiration, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	backend.lock = lock
	return backend, nil
}

func (r *redisBackend) lockKey() string {
	return fmt.Sprintf("lock:%s", r.key)
}

func (r *redisBackend) Get(key string) ([]byte, bool, error) {
	value, err := r.client.HGet(ctx, r.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *redisBackend) Has(key string) (bool, error) {
	return r.client.HExists(ctx, r.key, key).Result()
}

func (r *redisBackend) Put(entries map[string][]byte) error {
	if r.readOnly {
		return ErrReadOnly
	}
	if err := r.lock.Refresh(ctx, r.lockExpiration, nil); err != nil {
		return fmt.Errorf("refresh write lock: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for start := 0; start < len(keys); start += redisBatchSize {
		end := start + redisBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		values := make([]interface{}, 0, 2*(end-start))
		for _, k := range keys[start:end] {
			values = append(values, k, entries[k])
		}
		if err := r.client.HSet(ctx, r.key, values...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *redisBackend) Keys() ([]string, error) {
	keys, err := r.client.HKeys(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *redisBackend) Clear() error {
	if r.readOnly {
		return ErrReadOnly
	}
	return r.client.Del(ctx, r.key).Err()
}

func (r *redisBackend) Close() error {
	var lockErr error
	if r.lock != nil {
		lockErr = r.lock.Release(ctx)
		if errors.Is(lockErr, redislock.ErrLockNotHeld) {
			lockErr = nil
		}
	}
	return errors.Join(lockErr, r.client.Close())
}
