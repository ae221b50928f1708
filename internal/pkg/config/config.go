package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	CourseURL     string        `mapstructure:"COURSE_URL"`
	SectionLabel  string        `mapstructure:"SECTION_LABEL"`
	SeatThreshold int           `mapstructure:"SEAT_THRESHOLD"`
	CheckSchedule string        `mapstructure:"CHECK_SCHEDULE"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT"`

	// Comma separated.
	SlackWebhook     string `mapstructure:"SLACK_WEBHOOK"`
	SlackSocketToken string `mapstructure:"SLACK_SOCKET_TOKEN"`

	MongoConnectionString string `mapstructure:"MONGO_CONNECTION_STRING"`
	MongoDatabase         string `mapstructure:"MONGO_DATABASE"`

	Port         string `mapstructure:"PORT"`
	HeartbeatURL string `mapstructure:"HEARTBEAT_URL"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"COURSE_URL":              "https://classes.berkeley.edu/content/2026-spring-compsci-185-001-lec-001",
	"SECTION_LABEL":           "",
	"SEAT_THRESHOLD":          30,
	"CHECK_SCHEDULE":          "@every 30s",
	"FETCH_TIMEOUT":           "1m",
	"SLACK_WEBHOOK":           "",
	"SLACK_SOCKET_TOKEN":      "",
	"MONGO_CONNECTION_STRING": "",
	"MONGO_DATABASE":          "monitor-data",
	"PORT":                    "8080",
	"HEARTBEAT_URL":           "",
	"ENV":                     "development",
	"LOG_LEVEL":               "",
}

// Load reads .env into the environment, then layers an optional config.yaml
// and environment variables over the defaults.
func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()
	return loadWith(viper.New())
}

func loadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.CourseURL) == "" {
		return fmt.Errorf("%w: COURSE_URL is required", ErrInvalidConfig)
	}
	if c.SeatThreshold < 0 {
		return fmt.Errorf("%w: SEAT_THRESHOLD must not be negative", ErrInvalidConfig)
	}
	if _, err := cron.ParseStandard(c.CheckSchedule); err != nil {
		return fmt.Errorf("%w: CHECK_SCHEDULE: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Webhooks() []string {
	webhooks := make([]string, 0)
	for _, w := range strings.Split(c.SlackWebhook, ",") {
		if w = strings.TrimSpace(w); w != "" {
			webhooks = append(webhooks, w)
		}
	}
	return webhooks
}
