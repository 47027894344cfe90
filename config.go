package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, populated from the environment.
// A .env file is loaded first when present (see main).
type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`

	// Guild to register slash commands in. Empty registers them globally,
	// which Discord may take up to an hour to propagate.
	GuildID string `envconfig:"DISCORD_GUILD_ID"`

	// Category channel that persona channels live under. Channel-chat mode
	// is disabled when empty.
	PersonaCategoryID string `envconfig:"PERSONA_CATEGORY_ID"`

	AgentServiceURL string        `envconfig:"AGENT_SERVICE_URL" default:"http://localhost:8000"`
	AgentTimeout    time.Duration `envconfig:"AGENT_TIMEOUT" default:"60s"`

	// Video generation is a long-running operation on the agent side,
	// typically 1-3 minutes.
	VideoTimeout time.Duration `envconfig:"VIDEO_TIMEOUT" default:"5m"`

	// Optional. When set, chat session IDs are shared through Redis instead
	// of the in-process map, so restarts don't orphan conversations.
	RedisURL   string        `envconfig:"REDIS_URL"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"6h"`

	PersonaCacheTTL time.Duration `envconfig:"PERSONA_CACHE_TTL" default:"30s"`

	// Slash command registration (bulk overwrite) on every Ready. Turn off
	// when iterating on something unrelated to the command surface.
	RegisterCommands bool `envconfig:"REGISTER_COMMANDS" default:"true"`

	IsProd bool `envconfig:"IS_PROD"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}
	return cfg, nil
}
