package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {

	cfg, err := loadWith(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SeatThreshold)
	assert.Equal(t, "@every 30s", cfg.CheckSchedule)
	assert.Equal(t, time.Minute, cfg.FetchTimeout)
	assert.Equal(t, "monitor-data", cfg.MongoDatabase)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.Webhooks())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEAT_THRESHOLD", "5")
	t.Setenv("SECTION_LABEL", "CS185 Lecture")
	t.Setenv("SLACK_WEBHOOK", "https://a, ,https://b")
	t.Setenv("ENV", "production")

	cfg, err := loadWith(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.SeatThreshold)
	assert.Equal(t, "CS185 Lecture", cfg.SectionLabel)
	assert.Equal(t, []string{"https://a", "https://b"}, cfg.Webhooks())
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := Config{CourseURL: "https://x", SeatThreshold: 30, CheckSchedule: "@every 1m"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty url", mutate: func(c *Config) { c.CourseURL = " " }},
		{name: "negative threshold", mutate: func(c *Config) { c.SeatThreshold = -1 }},
		{name: "bad schedule", mutate: func(c *Config) { c.CheckSchedule = "sometimes" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
