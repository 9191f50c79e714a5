package config

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// ESI configuration
	ESIClientID     string
	ESIClientSecret string
	ESICallbackURL  string
	ESIUserAgent    string

	// Callback server
	CallbackListenAddr string

	// Collection settings
	CollectInterval time.Duration
	CollectTimeout  time.Duration

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// ESI
		ESIClientID:     os.Getenv("ESI_CLIENT_ID"),
		ESIClientSecret: os.Getenv("ESI_CLIENT_SECRET"),
		ESICallbackURL:  os.Getenv("ESI_CALLBACK_URL"),
		ESIUserAgent:    os.Getenv("ESI_USER_AGENT"),

		// Callback server
		CallbackListenAddr: os.Getenv("CALLBACK_LISTEN_ADDR"),

		// Collection defaults
		CollectInterval: 10 * time.Minute,
		CollectTimeout:  60 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if interval := os.Getenv("COLLECT_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.CollectInterval = parsed
		}
	}
	if timeout := os.Getenv("COLLECT_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			config.CollectTimeout = parsed
		}
	}

	if config.CallbackListenAddr == "" {
		config.CallbackListenAddr = ":8080"
	}
	if config.ESIUserAgent == "" {
		config.ESIUserAgent = "raffler"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.ESIClientID == "" {
			return nil, fmt.Errorf("ESI_CLIENT_ID is required")
		}
		if config.ESIClientSecret == "" {
			return nil, fmt.Errorf("ESI_CLIENT_SECRET is required")
		}
		if config.ESICallbackURL == "" {
			return nil, fmt.Errorf("ESI_CALLBACK_URL is required")
		}
	}

	return config, nil
}
