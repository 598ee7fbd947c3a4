package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{Path: "/tmp/newsdesk-test"},
		Server: ServerConfig{
			Port:           "5000",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"*"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsUnknownEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"
	assert.ErrorContains(t, cfg.Validate(), "invalid environment")
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")
}

func TestValidate_RequiresDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandDataPath_MakesAbsolute(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Path = "relative/dir"
	require.NoError(t, cfg.expandDataPath())
	assert.True(t, cfg.Data.Path[0] == '/', "expected absolute path, got %s", cfg.Data.Path)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins(" https://a.example , https://b.example "))
	assert.Equal(t, []string{"*"}, splitOrigins(" , "))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "NEWSDESK_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "NEWSDESK_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "NEWSDESK_TEST_UNSET", "default"))
}
