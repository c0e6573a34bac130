package app

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration, read from environment variables
// with the AUTHD_ prefix and optionally a local .env file.
type Config struct {
	ListenAddr   string // Address the HTTP server binds to (default: 127.0.0.1:8321)
	DatabaseFile string // Path to the SQLite database file (default: ./cowsalt-auth.db)

	SessionTTL time.Duration // Session lifetime; 0 disables expiry (default: 12h)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration via Viper. Environment variables win over
// the optional .env file.
func LoadConfig() Config {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // the file is optional

	v.SetEnvPrefix("AUTHD")
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", "127.0.0.1:8321")
	v.SetDefault("DATABASE_FILE", "cowsalt-auth.db")
	v.SetDefault("SESSION_TTL", 12*time.Hour)
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)

	return Config{
		ListenAddr:          v.GetString("LISTEN_ADDR"),
		DatabaseFile:        v.GetString("DATABASE_FILE"),
		SessionTTL:          v.GetDuration("SESSION_TTL"),
		Env:                 v.GetString("ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		ShutdownGracePeriod: v.GetDuration("SHUTDOWN_GRACE_PERIOD"),
	}
}
