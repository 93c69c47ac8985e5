package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/config"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
week_start: Monday
default_view: agenda
layout:
  hour_height_px: 64
ics:
  - name: work
    url: https://example.com/work.ics
events:
  - title: Offsite
    start: 2025-06-04T09:00
    end: 2025-06-06T17:00
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, time.Monday, cfg.Weekday())
	assert.Equal(t, "week", cfg.DefaultView)
	assert.Equal(t, 64, cfg.Layout.HourHeightPx)
	assert.Equal(t, 20, cfg.Layout.MinSlotHeightPx)
	assert.Equal(t, 2, cfg.Layout.MonthMaxEvents)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshCron)
	require.Len(t, cfg.ICS, 1)
	assert.Equal(t, "work", cfg.ICS[0].SourceID())
	require.Len(t, cfg.Events, 1)
	assert.Equal(t, "Offsite", cfg.Events[0].Title)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Listen = "0.0.0.0:9000"
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "u", Password: "p"}

	require.NoError(t, cfg.Save(path))
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLocation(t *testing.T) {
	cfg := config.DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "Not/AZone"
	loc, err = cfg.Location()
	assert.Error(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestParseSeedTime(t *testing.T) {
	loc := time.UTC

	got, err := config.ParseSeedTime("2025-06-04T09:30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 4, 9, 30, 0, 0, loc), got)

	got, err = config.ParseSeedTime("2025-06-04", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, loc), got)

	got, err = config.ParseSeedTime("2025-06-04T09:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 6, 4, 9, 30, 0, 0, time.UTC)))

	_, err = config.ParseSeedTime("tomorrow", loc)
	assert.Error(t, err)
}
