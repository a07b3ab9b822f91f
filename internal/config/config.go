package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Sender   SenderConfig   `mapstructure:"sender"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Insights InsightsConfig `mapstructure:"insights"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig points at the Postgres lead store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScraperConfig configures the lead extraction function.
type ScraperConfig struct {
	URL         string `mapstructure:"url"`
	Key         string `mapstructure:"key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// SenderConfig selects how bulk sends reach the messaging service.
type SenderConfig struct {
	Transport string `mapstructure:"transport"` // "http", "amqp" or "memory"
	URL       string `mapstructure:"url"`
	Key       string `mapstructure:"key"`
	AMQPURL   string `mapstructure:"amqp_url"`
	Queue     string `mapstructure:"queue"`
}

// ScheduleConfig configures how date/time pairs are turned into timestamps.
type ScheduleConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// InsightsConfig holds the AI gateway settings.
type InsightsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Key       string `mapstructure:"key"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// RedisConfig configures the insights response cache. Empty Addr disables it.
type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// TTL returns the cache TTL as a duration.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// Location resolves the configured schedule time zone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, eris.Wrapf(err, "config: load timezone %q", s.Timezone)
	}
	return loc, nil
}

// Load reads .env, an optional config.yaml and LEADREACH_* environment variables.
func Load() (*Config, error) {
	// .env is optional; OS environment wins either way.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEADREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"database.url", "scraper.url", "scraper.key", "sender.url", "sender.key",
		"sender.amqp_url", "insights.base_url", "insights.key", "redis.addr", "redis.password",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scraper.timeout_secs", 120)
	v.SetDefault("sender.transport", "http")
	v.SetDefault("sender.queue", "whatsapp_sends")
	v.SetDefault("schedule.timezone", "America/Sao_Paulo")
	v.SetDefault("insights.model", "claude-haiku-4-5-20251001")
	v.SetDefault("insights.max_tokens", 2048)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_seconds", 3600)
}

// Validate checks the keys the API server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return eris.New("config: database.url is required")
	}
	if c.Scraper.URL == "" {
		return eris.New("config: scraper.url is required")
	}
	switch c.Sender.Transport {
	case "http":
		if c.Sender.URL == "" {
			return eris.New("config: sender.url is required for the http transport")
		}
	case "amqp":
		if c.Sender.AMQPURL == "" {
			return eris.New("config: sender.amqp_url is required for the amqp transport")
		}
	case "memory":
	default:
		return eris.Errorf("config: unknown sender.transport %q", c.Sender.Transport)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
