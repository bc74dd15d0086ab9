package config

import (
	"path/filepath"
	"time"
)

// FileName is the config file looked up in the working directory.
const FileName = ".shopassist.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".shopassist",
		Server: ServerConfig{
			Port: 8080,
		},
		Chat: ChatConfig{
			TypingDelay:  600 * time.Millisecond,
			SupportPhone: "1-800-SHOP-HELP",
		},
		Redis: RedisConfig{
			KeyPrefix:  "shopassist:",
			StateTTL:   24 * time.Hour,
			CatalogTTL: 10 * time.Minute,
		},
		Mongo: MongoConfig{
			Database: "shopassist",
		},
		Support: SupportConfig{
			Backend: SupportSQLite,
		},
		Notifications: NotificationsConfig{
			MinLevel: "error",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DBPath is the SQLite database inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "shopassist.db")
}
