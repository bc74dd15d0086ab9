package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/shopassist/internal/notifications"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "SHOPASSIST_"

// dotEnvFile is pre-loaded into the environment when present. Variables
// already set in the process win.
var dotEnvFile = ".env"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A double underscore nests:
// SHOPASSIST_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			return nil, fmt.Errorf("reading %s: %w", dotEnvFile, err)
		}
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[SupportBackend]bool{
	SupportSQLite: true,
	SupportMongo:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Chat.TypingDelay < 0 {
		return fmt.Errorf("chat.typing_delay must be non-negative")
	}
	if c.Redis.StateTTL < 0 || c.Redis.CatalogTTL < 0 {
		return fmt.Errorf("redis TTLs must be non-negative")
	}

	if !validBackends[c.Support.Backend] {
		return fmt.Errorf("invalid support.backend %q: must be one of sqlite, mongo", c.Support.Backend)
	}
	if c.Support.Backend == SupportMongo && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required for the mongo support backend")
	}

	if _, err := notifications.ParseLevel(c.Notifications.MinLevel); err != nil {
		return fmt.Errorf("invalid notifications.min_level: %w", err)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}

	return nil
}
