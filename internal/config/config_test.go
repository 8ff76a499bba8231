package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/giftbox-letters/internal/engine"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendFile, cfg.SettingsBackend)
	assert.Equal(t, "letter-game-settings", cfg.SettingsKey)
	assert.Equal(t, engine.DefaultTiming(), cfg.Timing())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GIFTBOX_SETTINGS_BACKEND", "sqlite")
	t.Setenv("GIFTBOX_REVEAL_DELAY", "1.5s")
	t.Setenv("GIFTBOX_LOG_DEV", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.SettingsBackend)
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay)
	assert.True(t, cfg.LogDev)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GIFTBOX_ADDR=:9999\nGIFTBOX_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GIFTBOX_ADDR")
		os.Unsetenv("GIFTBOX_LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":      {"GIFTBOX_SETTINGS_BACKEND": "redis"},
		"postgres without url": {"GIFTBOX_SETTINGS_BACKEND": "postgres"},
		"negative delay":       {"GIFTBOX_OPEN_DELAY": "-1s"},
		"unparseable delay":    {"GIFTBOX_SWITCH_DELAY": "soon"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
			assert.Error(t, err)
		})
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg struct {
		Port int `env:"GIFTBOX_TEST_PORT"`
	}
	t.Setenv("GIFTBOX_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse env:"))
}
