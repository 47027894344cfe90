package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISCORD_TOKEN", "DISCORD_GUILD_ID", "PERSONA_CATEGORY_ID",
		"AGENT_SERVICE_URL", "AGENT_TIMEOUT", "VIDEO_TIMEOUT",
		"REDIS_URL", "SESSION_TTL", "PERSONA_CACHE_TTL",
		"REGISTER_COMMANDS", "IS_PROD",
	} {
		// t.Setenv registers the restore, Unsetenv makes the variable
		// genuinely absent rather than set-but-empty.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	clearConfigEnv(t)

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DISCORD_TOKEN", "token-123")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.DiscordToken)
	assert.Equal(t, "http://localhost:8000", cfg.AgentServiceURL)
	assert.Equal(t, 60*time.Second, cfg.AgentTimeout)
	assert.Equal(t, 5*time.Minute, cfg.VideoTimeout)
	assert.Equal(t, 6*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.PersonaCacheTTL)
	assert.True(t, cfg.RegisterCommands)
	assert.False(t, cfg.IsProd)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("AGENT_SERVICE_URL", "http://agent:9000")
	t.Setenv("PERSONA_CACHE_TTL", "45s")
	t.Setenv("REGISTER_COMMANDS", "false")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://agent:9000", cfg.AgentServiceURL)
	assert.Equal(t, 45*time.Second, cfg.PersonaCacheTTL)
	assert.False(t, cfg.RegisterCommands)
}
