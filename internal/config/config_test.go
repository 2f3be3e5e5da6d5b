package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:TEST")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("INIT_DATA_TTL", "3600")
	t.Setenv("DEBUG_AUTH_SECRET", "local-secret")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123456:TEST", cfg.Telegram.BotToken)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 3600, cfg.Telegram.InitDataTTL)
	assert.Equal(t, "local-secret", cfg.Telegram.DebugAuthSecret)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.Origin)
	assert.Equal(t, 86400, cfg.Telegram.InitDataTTL)
	assert.Empty(t, cfg.Telegram.DebugAuthSecret)
	assert.False(t, cfg.Database.AutoMigrate)
}
