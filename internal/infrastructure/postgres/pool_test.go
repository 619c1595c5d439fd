package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestApplyPoolSettings_DesdeConfig(t *testing.T) {
	pc, err := pgxpool.ParseConfig("postgres://u:p@127.0.0.1:5432/ledger?sslmode=disable")
	require.NoError(t, err)

	applyPoolSettings(pc, config.DBConfig{
		MaxConns: 8, MinConns: 3, MaxConnLifetime: 10 * time.Minute,
		MaxConnIdleTime: time.Minute, HealthCheckPeriod: 15 * time.Second,
	})
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
}

func TestApplyPoolSettings_CerosUsanDefecto(t *testing.T) {
	pc, err := pgxpool.ParseConfig("postgres://u:p@127.0.0.1:5432/ledger?sslmode=disable")
	require.NoError(t, err)

	applyPoolSettings(pc, config.DBConfig{MaxConns: 1})
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns, "el mínimo no supera al máximo")
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.HealthCheckPeriod)
}

func TestPoolDSN_DatabaseURLConIP(t *testing.T) {
	url := "postgres://u:p@127.0.0.1:6543/ledger?sslmode=require"
	assert.Equal(t, url, poolDSN(config.DBConfig{DatabaseURL: url}))
}
