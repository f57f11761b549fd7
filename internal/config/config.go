package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultGuildID is the Discord guild the leaderboards were first run for.
const DefaultGuildID = "1213253795333541960"

// DefaultBaseURL is the Yunite public API root.
const DefaultBaseURL = "https://yunite.xyz/api/v3"

// Config holds runtime configuration read from the environment.
type Config struct {
	YuniteAPIKey   string
	GuildID        string
	YuniteBaseURL  string
	DiscordWebhook string
	RedisURL       string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
// Credentials are not required here; commands call RequireYunite or
// RequireDiscord for what they actually use.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		YuniteAPIKey:   getEnv("YUNITE_API_KEY", ""),
		GuildID:        getEnv("YUNITE_GUILD_ID", DefaultGuildID),
		YuniteBaseURL:  getEnv("YUNITE_BASE_URL", DefaultBaseURL),
		DiscordWebhook: getEnv("DISCORD_WEBHOOK", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		RequestTimeout: timeout,
	}

	logger.Debug().
		Str("guild_id", cfg.GuildID).
		Str("yunite_base_url", cfg.YuniteBaseURL).
		Bool("redis", cfg.RedisURL != "").
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// RequireYunite checks the settings needed to call the Yunite API.
func (c *Config) RequireYunite() error {
	if c.YuniteAPIKey == "" {
		return errors.New("YUNITE_API_KEY is required")
	}
	if c.GuildID == "" {
		return errors.New("YUNITE_GUILD_ID is required")
	}
	return nil
}

// RequireDiscord checks the settings needed to post to Discord.
func (c *Config) RequireDiscord() error {
	if c.DiscordWebhook == "" {
		return errors.New("DISCORD_WEBHOOK is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
