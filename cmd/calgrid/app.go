package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"calgrid/internal/config"
	"calgrid/internal/ics"
	appLog "calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/refresh"
	"calgrid/internal/store"
)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	loc      *time.Location
	store    *store.Store
	importer *refresh.Importer
}

// loadApp reads the config, applies log settings, seeds the store and
// prepares the ICS importer (nil without sources).
func loadApp(c *cli.Context) (*app, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	level := appLog.ParseLevel(cfg.LogLevel)
	if c.Bool("debug") {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("invalid timezone; using local", err, "timezone", cfg.Timezone)
	}

	a := &app{cfg: cfg, loc: loc, store: store.New()}
	if n, err := seedEvents(a.store, cfg.Events, loc); err != nil {
		appLog.Error("some seed events were rejected", err, "loaded", n)
	}

	if sources := refresh.Sources(cfg.ICS); len(sources) > 0 {
		a.importer = refresh.NewImporter(ics.NewFetcher(nil), a.store, sources, loc)
	}

	appLog.Info("effective config",
		"config_path", path,
		"listen", cfg.Listen,
		"timezone", loc.String(),
		"week_start", cfg.WeekStart,
		"default_view", cfg.DefaultView,
		"refresh", cfg.RefreshCron,
		"ics_count", len(cfg.ICS),
		"seed_events", len(cfg.Events),
	)
	return a, nil
}

// refreshOnce imports ICS sources, if any, before the first layout.
func (a *app) refreshOnce(ctx context.Context) {
	if a.importer != nil {
		a.importer.Run(ctx)
	}
}

func seedEvents(st *store.Store, seeds []config.SeedEvent, loc *time.Location) (int, error) {
	var errs []error
	loaded := 0
	for i, s := range seeds {
		start, err := config.ParseSeedTime(s.Start, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("events[%d] start: %w", i, err))
			continue
		}
		end, err := config.ParseSeedTime(s.End, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("events[%d] end: %w", i, err))
			continue
		}
		if _, err := st.Add(model.Event{
			Title:       s.Title,
			Description: s.Description,
			Start:       start,
			End:         end,
		}); err != nil {
			errs = append(errs, fmt.Errorf("events[%d] %q: %w", i, s.Title, err))
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}
