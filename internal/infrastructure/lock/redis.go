package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ ledger.Locker = (*Redis)(nil)

// RedisConfig parámetros del bloqueo distribuido.
type RedisConfig struct {
	TTL     time.Duration // vida máxima del bloqueo si la instancia muere sin liberarlo
	Backoff time.Duration // espera entre reintentos
	Retries int           // reintentos antes de ErrLockNotObtained
}

// Redis bloqueo por llave compartido entre instancias (bsm/redislock).
type Redis struct {
	client *redislock.Client
	cfg    RedisConfig
}

// NewRedis construye el bloqueador distribuido sobre un cliente go-redis.
func NewRedis(rdb *redis.Client, cfg RedisConfig) *Redis {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 100 * time.Millisecond
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Redis{client: redislock.New(rdb), cfg: cfg}
}

// Acquire obtiene todas las llaves en orden o ninguna.
func (r *Redis) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	locks := make([]*redislock.Lock, 0, len(keys))
	releaseAll := func() {
		for i := len(locks) - 1; i >= 0; i-- {
			_ = locks[i].Release(context.Background())
		}
	}
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(r.cfg.Backoff), r.cfg.Retries),
	}
	for _, k := range keys {
		lk, err := r.client.Obtain(ctx, "lock:"+k, r.cfg.TTL, opts)
		if errors.Is(err, redislock.ErrNotObtained) {
			releaseAll()
			return nil, fmt.Errorf("%w: %s", domain.ErrLockNotObtained, k)
		}
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("obtain lock %s: %w", k, err)
		}
		locks = append(locks, lk)
	}
	return releaseAll, nil
}
