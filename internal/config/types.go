package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Persistence   PersistenceConfig
	Slack         SlackConfig
	Turso         TursoConfig
	Animation     AnimationConfig
}

// PersistenceConfig selects the system of record. Mode is "local" (sqlite)
// or "remote" (REST backend).
type PersistenceConfig struct {
	Mode      string
	RemoteURL string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// AnimationConfig tunes transition playback.
type AnimationConfig struct {
	Duration    time.Duration
	SettleDelay time.Duration
}
