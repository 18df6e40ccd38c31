package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/interval-timer/interval-timer-app/internal/catalog"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Zero(t, cfg.Day)
	assert.Empty(t, cfg.CatalogPath)
	assert.Nil(t, cfg.AutoAdvance)
	assert.False(t, cfg.List)
	assert.NotEmpty(t, cfg.SettingsPath)
	assert.NotEmpty(t, cfg.LogFile)
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := loadConfig([]string{"--day", "4", "--catalog", "week.toml", "--auto-advance=false", "--list"})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Day)
	assert.Equal(t, "week.toml", cfg.CatalogPath)
	require.NotNil(t, cfg.AutoAdvance)
	assert.False(t, *cfg.AutoAdvance)
	assert.True(t, cfg.List)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("INTERVAL_TIMER_DAY", "6")
	t.Setenv("INTERVAL_TIMER_LOG_FILE", "/tmp/timer.log")
	t.Setenv("INTERVAL_TIMER_AUTO_ADVANCE", "false")
	t.Setenv("INTERVAL_TIMER_SETTINGS", "/tmp/prefs.json")

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prefs.json", cfg.SettingsPath)

	assert.Equal(t, 6, cfg.Day)
	assert.Equal(t, "/tmp/timer.log", cfg.LogFile)
	require.NotNil(t, cfg.AutoAdvance)
	assert.False(t, *cfg.AutoAdvance)
}

func TestLoadConfig_FlagBeatsEnvironment(t *testing.T) {
	t.Setenv("INTERVAL_TIMER_DAY", "6")

	cfg, err := loadConfig([]string{"--day=2"})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Day)
}

func TestLoadConfig_RejectsBadDay(t *testing.T) {
	_, err := loadConfig([]string{"--day", "8"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestPrintCatalog(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printCatalog(&buf, catalog.Default())
	out := buf.String()

	assert.Contains(t, out, "Day 1: Full Body Foundation")
	assert.Contains(t, out, "- Strength Circuit")
	assert.Contains(t, out, "3 rounds")
	assert.Contains(t, out, "Jumping Jacks")
	assert.Contains(t, out, "Day 7:")
}

func TestLoadCatalog(t *testing.T) {
	c, err := loadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())

	_, err = loadCatalog("missing.yaml")
	assert.Error(t, err)
}
