package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("WEBHOOK_PATH", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/bot/webhook", cfg.Bot.WebhookPath)
	assert.Equal(t, 24*time.Hour, cfg.Business.IdempotencyTTL)
	assert.Error(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("WEBHOOK_HOST", "https://admin.example.com")

	cfg := Load()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	require.NoError(t, cfg.Validate())
}
