package config

import "time"

// SupportBackend selects where support tickets are written.
type SupportBackend string

const (
	SupportSQLite SupportBackend = "sqlite"
	SupportMongo  SupportBackend = "mongo"
)

// Config is the top-level shopassist configuration, corresponding to .shopassist.yml.
type Config struct {
	DataDir       string              `yaml:"data_dir" koanf:"data_dir"`
	Server        ServerConfig        `yaml:"server" koanf:"server"`
	Chat          ChatConfig          `yaml:"chat" koanf:"chat"`
	Redis         RedisConfig         `yaml:"redis" koanf:"redis"`
	Mongo         MongoConfig         `yaml:"mongo" koanf:"mongo"`
	Support       SupportConfig       `yaml:"support" koanf:"support"`
	Notifications NotificationsConfig `yaml:"notifications" koanf:"notifications"`
	Log           LogConfig           `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ChatConfig tunes the conversation.
type ChatConfig struct {
	TypingDelay  time.Duration `yaml:"typing_delay" koanf:"typing_delay"`
	SupportPhone string        `yaml:"support_phone" koanf:"support_phone"`
}

// RedisConfig enables Redis-backed state and catalog caching when URL is set.
type RedisConfig struct {
	URL        string        `yaml:"url" koanf:"url"`
	KeyPrefix  string        `yaml:"key_prefix" koanf:"key_prefix"`
	StateTTL   time.Duration `yaml:"state_ttl" koanf:"state_ttl"`
	CatalogTTL time.Duration `yaml:"catalog_ttl" koanf:"catalog_ttl"`
}

// MongoConfig is used by the mongo support backend.
type MongoConfig struct {
	URI      string `yaml:"uri" koanf:"uri"`
	Database string `yaml:"database" koanf:"database"`
}

type SupportConfig struct {
	Backend SupportBackend `yaml:"backend" koanf:"backend"`
}

// NotificationsConfig controls forwarding of shopper notifications to an
// operations webhook.
type NotificationsConfig struct {
	WebhookURL string `yaml:"webhook_url" koanf:"webhook_url"`
	MinLevel   string `yaml:"min_level" koanf:"min_level"`
}

type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
