package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/nontonin")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("QRIS_COUNTDOWN_SECONDS", "3")
	t.Setenv("DEFAULT_MOVIE_PRICE", "25000")
	t.Setenv("S3_USE_SSL", "false")

	LoadEnv()

	assert.Equal(t, "9090", PORT)
	assert.Equal(t, "postgres://localhost/nontonin", DB_URL)
	assert.Equal(t, "test-secret", JWT_SECRET)
	assert.Equal(t, "localhost:6379", REDIS_ADDR)
	assert.Equal(t, 3, QRIS_COUNTDOWN_SECONDS)
	assert.Equal(t, time.Second, QRIS_TICK)
	assert.Equal(t, int64(25000), DEFAULT_MOVIE_PRICE)
	assert.False(t, S3_USE_SSL)
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/nontonin")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("QRIS_COUNTDOWN_SECONDS", "")
	t.Setenv("DEFAULT_MOVIE_PRICE", "not-a-number")

	LoadEnv()

	assert.Equal(t, 10, QRIS_COUNTDOWN_SECONDS)
	assert.Equal(t, int64(15000), DEFAULT_MOVIE_PRICE)
	assert.Equal(t, 20, RATE_LIMIT_PER_MINUTE)
}
