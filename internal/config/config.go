package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ICSConfig describes a single ICS source.
type ICSConfig struct {
	// URL is an http(s) endpoint or a local file path.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used to replace the source's events on
	// refresh and in logs.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
}

// SourceID returns ID, falling back to Name and then URL.
func (c ICSConfig) SourceID() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.Name != "":
		return c.Name
	default:
		return c.URL
	}
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// LayoutConfig holds the presentation constants used to turn layout output
// into pixels.
type LayoutConfig struct {
	HourHeightPx       int `yaml:"hour_height_px" json:"hour_height_px"`
	MinSlotHeightPx    int `yaml:"min_slot_height_px" json:"min_slot_height_px"`
	DayMinSlotHeightPx int `yaml:"day_min_slot_height_px" json:"day_min_slot_height_px"`
	BandRowPx          int `yaml:"band_row_px" json:"band_row_px"`
	BandHeightPx       int `yaml:"band_height_px" json:"band_height_px"`
	MonthMaxEvents     int `yaml:"month_max_events" json:"month_max_events"`
}

// CaptureConfig controls the headless screenshot command.
type CaptureConfig struct {
	// URL to capture; empty means the local /calendar page on Listen.
	URL    string `yaml:"url" json:"url"`
	Output string `yaml:"output" json:"output"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// SeedEvent is an event declared in the config file and loaded into the
// store at startup. Times accept RFC3339 or "2006-01-02T15:04" in the
// display timezone.
type SeedEvent struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used as local wall-clock time. Empty means
	// the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// DefaultView is the view shown when none is requested:
	// "month", "week" (default) or "day".
	DefaultView string `yaml:"default_view" json:"default_view"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for re-importing ICS sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Layout  LayoutConfig  `yaml:"layout" json:"layout"`
	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// ICS is the list of imported ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// Events are seed events added to the store at startup.
	Events []SeedEvent `yaml:"events,omitempty" json:"events,omitempty"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultWeekStart   = "sunday"
	defaultView        = "week"
	defaultLogLevel    = "info"
	defaultRefreshCron = "*/15 * * * *"
	defaultCaptureOut  = "./preview.png"
)

// DefaultLayout mirrors the sizes of the reference UI: 48px per hour, 20px
// minimum week slot, 24px minimum day slot, 22px band rows.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		HourHeightPx:       48,
		MinSlotHeightPx:    20,
		DayMinSlotHeightPx: 24,
		BandRowPx:          22,
		BandHeightPx:       20,
		MonthMaxEvents:     2,
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      defaultListen,
		WeekStart:   defaultWeekStart,
		DefaultView: defaultView,
		LogLevel:    defaultLogLevel,
		RefreshCron: defaultRefreshCron,
		Layout:      DefaultLayout(),
		Capture: CaptureConfig{
			Output: defaultCaptureOut,
			Width:  1280,
			Height: 960,
		},
		ICS: []ICSConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}

	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		// Unknown value; fall back to sunday to avoid surprising layouts.
		c.WeekStart = defaultWeekStart
	}

	c.DefaultView = strings.ToLower(strings.TrimSpace(c.DefaultView))
	switch c.DefaultView {
	case "month", "week", "day":
	default:
		c.DefaultView = defaultView
	}

	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}

	def := DefaultLayout()
	positive := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	positive(&c.Layout.HourHeightPx, def.HourHeightPx)
	positive(&c.Layout.MinSlotHeightPx, def.MinSlotHeightPx)
	positive(&c.Layout.DayMinSlotHeightPx, def.DayMinSlotHeightPx)
	positive(&c.Layout.BandRowPx, def.BandRowPx)
	positive(&c.Layout.BandHeightPx, def.BandHeightPx)
	if c.Layout.MonthMaxEvents < 0 {
		c.Layout.MonthMaxEvents = def.MonthMaxEvents
	}

	if c.Capture.Output == "" {
		c.Capture.Output = defaultCaptureOut
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Weekday returns WeekStart as a time.Weekday.
func (c *Config) Weekday() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseSeedTime parses a SeedEvent timestamp in loc.
func ParseSeedTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", v)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically: temp file in the same directory,
// fsync, chmod 0600, rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
