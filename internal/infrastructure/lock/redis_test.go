package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
)

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379 go test ./...
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedis_LlaveOcupadaAgotaReintentos(t *testing.T) {
	rdb := redisClient(t)
	cfg := lock.RedisConfig{TTL: 5 * time.Second, Backoff: 10 * time.Millisecond, Retries: 3}
	a := lock.NewRedis(rdb, cfg)
	b := lock.NewRedis(rdb, cfg)
	key := "balance:" + uuid.NewString() + ":bod"

	release, err := a.Acquire(context.Background(), key)
	require.NoError(t, err)

	_, err = b.Acquire(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	release()
	release2, err := b.Acquire(context.Background(), key)
	require.NoError(t, err)
	release2()
}

func TestRedis_FalloParcialLiberaLoObtenido(t *testing.T) {
	rdb := redisClient(t)
	cfg := lock.RedisConfig{TTL: 5 * time.Second, Backoff: 10 * time.Millisecond, Retries: 1}
	l := lock.NewRedis(rdb, cfg)
	k1 := "balance:" + uuid.NewString() + ":a"
	k2 := "balance:" + uuid.NewString() + ":b"

	// k2 ocupada por otro: el intento sobre (k1, k2) falla y k1 queda libre.
	holder, err := l.Acquire(context.Background(), k2)
	require.NoError(t, err)
	defer holder()

	_, err = l.Acquire(context.Background(), k1, k2)
	require.ErrorIs(t, err, domain.ErrLockNotObtained)

	release, err := l.Acquire(context.Background(), k1)
	require.NoError(t, err)
	release()
}
