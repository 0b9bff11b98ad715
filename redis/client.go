// Package redis holds the connection settings shared by the redis table
// backend and the task ledger, and a small JSON document layer with
// lock-guarded updates.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type ReleaseLock func() error

var ErrNotFound = errors.New("redis: document not found")

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"MORPH_REDIS_LOCK_EXPIRATION" default:"30"`
	Host                    string  `envconfig:"MORPH_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"MORPH_REDIS_PORT" default:"6379"`
	DB                      int     `envconfig:"MORPH_REDIS_DB" default:"0"`
	HASentinelPort          string  `envconfig:"MORPH_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"MORPH_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"MORPH_REDIS_AUTH_PASSWORD" default:""`
	AuthRequired            bool    `envconfig:"MORPH_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"MORPH_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"MORPH_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func ReadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) LockExpiration() time.Duration {
	return time.Duration(cfg.LockExpirationSeconds) * time.Second
}

// NewUniversalClient connects through sentinel in HA mode and directly
// otherwise.
func NewUniversalClient(cfg *Config) redis.UniversalClient {
	if cfg.HAMode {
		return createFailoverClient(cfg)
	}
	return createClient(cfg)
}

func createFailoverClient(cfg *Config) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout * float32(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            cfg.DB,
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClient(&options)
}

func createClient(cfg *Config) *redis.Client {
	options := redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         cfg.DB,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// Client stores JSON documents under prefixed keys.
type Client struct {
	client         redis.UniversalClient
	prefix         string
	lockExpiration time.Duration
	ttl            time.Duration
}

// NewClient wraps client. Documents expire ttl after their last save; zero
// keeps them forever.
func NewClient(client redis.UniversalClient, prefix string, lockExpiration, ttl time.Duration) *Client {
	return &Client{
		client:         client,
		prefix:         prefix,
		lockExpiration: lockExpiration,
		ttl:            ttl,
	}
}

func (c *Client) key(name string) string {
	return c.prefix + name
}

func (c *Client) GetDocument(name string, doc interface{}) error {
	b, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, doc)
}

func (c *Client) SaveDocument(name string, doc interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(name), b, c.ttl).Err()
}

// UpdateDocument loads the document under a lock, applies update and saves
// it. A missing document starts from doc as passed in.
func (c *Client) UpdateDocument(name string, doc interface{}, update func()) (err error) {
	releaseLock, err := c.Lock(name)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()
	if err = c.GetDocument(name, doc); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	update()
	return c.SaveDocument(name, doc)
}

func (c *Client) Lock(name string) (ReleaseLock, error) {
	lockCl := redislock.New(c.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50)
	lockKey := fmt.Sprintf("lock:%s", c.key(name))
	lock, err := lockCl.Obtain(ctx, lockKey, c.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
