// Package refresh re-imports ICS sources into the event store on a cron
// schedule and drives the once-a-minute tick of the current-time indicator.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"calgrid/internal/config"
	"calgrid/internal/ics"
	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// TickSpec fires the current-time indicator update.
const TickSpec = "@every 1m"

// Replacer receives the events of one source. *store.Store satisfies it.
type Replacer interface {
	ReplaceSource(sourceID string, events []model.Event) (added, skipped int)
}

// Fetcher downloads sources. *ics.Fetcher satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []ics.Source) ([]ics.FetchResult, []error)
}

// Report summarizes one refresh run.
type Report struct {
	Sources  int
	Imported int
	Skipped  int
	Errors   []error
}

// Importer fetches, parses and stores every configured source.
type Importer struct {
	fetcher Fetcher
	store   Replacer
	sources []ics.Source
	loc     *time.Location

	mu sync.Mutex // one run at a time
}

// Sources converts config entries into fetchable sources, dropping entries
// without a URL.
func Sources(cfgs []config.ICSConfig) []ics.Source {
	out := make([]ics.Source, 0, len(cfgs))
	for _, c := range cfgs {
		if c.URL == "" {
			continue
		}
		out = append(out, ics.Source{ID: c.SourceID(), URL: c.URL})
	}
	return out
}

func NewImporter(f Fetcher, store Replacer, sources []ics.Source, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{fetcher: f, store: store, sources: sources, loc: loc}
}

// Run imports all sources once. A source that cannot be fetched or parsed
// keeps the events of its previous import.
func (im *Importer) Run(ctx context.Context) Report {
	im.mu.Lock()
	defer im.mu.Unlock()

	rep := Report{Sources: len(im.sources)}
	if len(im.sources) == 0 {
		return rep
	}

	start := time.Now()
	results, fetchErrs := im.fetcher.FetchAll(ctx, im.sources)
	rep.Errors = append(rep.Errors, fetchErrs...)

	for _, res := range results {
		events, err := ics.ParseICS(res.Source, res.Body, im.loc)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Errorf("%s: %w", res.Source.ID, err))
			continue
		}
		added, skipped := im.store.ReplaceSource(res.Source.ID, events)
		rep.Imported += added
		rep.Skipped += skipped
	}

	if len(rep.Errors) > 0 {
		appLog.Error("refresh finished with errors", errors.Join(rep.Errors...),
			"sources", rep.Sources, "error_count", len(rep.Errors))
	}
	appLog.Info("refresh completed",
		"sources", rep.Sources,
		"imported", rep.Imported,
		"skipped", rep.Skipped,
		"elapsed", time.Since(start).String(),
	)
	return rep
}

// Scheduler owns the cron instance.
type Scheduler struct {
	cron *cron.Cron
}

// ValidateSpec reports whether spec is a valid five-field cron expression
// or descriptor.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// NewScheduler registers im on spec and tick on TickSpec. Either job may be
// nil. Jobs run with ctx.
func NewScheduler(ctx context.Context, spec string, im *Importer, tick func(time.Time)) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))

	if im != nil {
		if err := ValidateSpec(spec); err != nil {
			return nil, err
		}
		if _, err := c.AddFunc(spec, func() { im.Run(ctx) }); err != nil {
			return nil, err
		}
	}
	if tick != nil {
		if _, err := c.AddFunc(TickSpec, func() { tick(time.Now()) }); err != nil {
			return nil, err
		}
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	appLog.Info("scheduler started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	appLog.Info("scheduler stopped")
}

// Next returns the next activation times, for logging.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// cronLogger routes cron's internal messages to appLog.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) { appLog.Debug("cron: "+msg, kv...) }

func (cronLogger) Error(err error, msg string, kv ...any) { appLog.Error("cron: "+msg, err, kv...) }
