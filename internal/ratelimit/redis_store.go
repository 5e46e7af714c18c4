package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares windows across server instances. Keys expire with the
// window, so an idle client costs nothing.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{rdb: rdb, prefix: "ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	k := s.prefix + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// NX keeps the original window end once the first hit set it
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)

	_, err := pipe.Exec(ctx)

	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := ttl.Val()

	if remaining < 0 {
		remaining = window
	}

	return int(incr.Val()), time.Now().Add(remaining), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
