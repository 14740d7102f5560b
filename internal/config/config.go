package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}
	getDurationOr := func(key string, fallback time.Duration) time.Duration {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Warn("Invalid duration, using default", "key", key, "value", value, "default", fallback)
			return fallback
		}
		return d
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvOr("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		Persistence: PersistenceConfig{
			Mode:      getEnvOr("PERSISTENCE_MODE", "local"),
			RemoteURL: getEnvOr("REMOTE_API_URL", ""),
		},
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Animation: AnimationConfig{
			Duration:    getDurationOr("ANIMATION_DURATION", time.Second),
			SettleDelay: getDurationOr("ANIMATION_SETTLE_DELAY", 100*time.Millisecond),
		},
	}

	if cfg.Persistence.Mode == "remote" && cfg.Persistence.RemoteURL == "" {
		log.Fatal("PERSISTENCE_MODE is remote but REMOTE_API_URL is not set")
	}
	return cfg
}
