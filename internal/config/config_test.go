package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "reservations")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoadDefaultsBookingPolicy(t *testing.T) {
	setBaseEnv(t)

	cfg := Load()
	assert.Equal(t, 10, cfg.RewardPoints)
	assert.False(t, cfg.RewardOnBooking)
	assert.Equal(t, 3, cfg.BookingRetries)
	assert.Equal(t, 15, cfg.AccessTTLMin)
}

func TestLoadReadsBookingPolicy(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REWARD_POINTS", "25")
	t.Setenv("REWARD_ON_BOOKING", "true")
	t.Setenv("BOOKING_MAX_RETRIES", "5")

	cfg := Load()
	assert.Equal(t, 25, cfg.RewardPoints)
	assert.True(t, cfg.RewardOnBooking)
	assert.Equal(t, 5, cfg.BookingRetries)
}

func TestRateLimitConfigFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is lifted so idle buckets never expire mid-burst.
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
}
