package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"calgrid/internal/calendar"
	"calgrid/internal/capture"
	appLog "calgrid/internal/log"
	"calgrid/internal/refresh"
	"calgrid/internal/render"
	"calgrid/internal/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and calendar page, refreshing ICS sources on schedule.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "HTTP listen address (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			if l := c.String("listen"); l != "" {
				a.cfg.Listen = l
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.refreshOnce(ctx)

			srv := web.NewServer(a.cfg, a.store, a.importer)
			sched, err := refresh.NewScheduler(ctx, a.cfg.RefreshCron, a.importer, srv.Tick)
			if err != nil {
				return err
			}
			sched.Start()

			httpSrv := &http.Server{
				Addr:              a.cfg.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				appLog.Info("starting HTTP server", "listen", "http://"+a.cfg.Listen)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
				appLog.Info("signal received, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sched.Stop(shutdownCtx)
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				appLog.Error("http shutdown failed", err)
			}
			appLog.Info("calgrid exiting")
			return nil
		},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "view", Usage: "month, week or day (default from config)"},
		&cli.StringFlag{Name: "date", Usage: "Date to show, YYYY-MM-DD (default today)"},
	}
}

// resolveView reads --view and --date.
func resolveView(c *cli.Context, a *app, now time.Time) (calendar.View, time.Time, error) {
	raw := c.String("view")
	if raw == "" {
		raw = a.cfg.DefaultView
	}
	view, err := calendar.ParseView(raw)
	if err != nil {
		return "", time.Time{}, err
	}

	date := now
	if d := c.String("date"); d != "" {
		date, err = time.ParseInLocation(time.DateOnly, d, a.loc)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("invalid --date %q: %w", d, err)
		}
	}
	return view, date, nil
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the laid-out view as a text agenda.",
		Flags: append(viewFlags(),
			&cli.IntFlag{Name: "width", Value: 100, Usage: "Maximum line width"},
		),
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			a.refreshOnce(c.Context)

			now := time.Now().In(a.loc)
			view, date, err := resolveView(c, a, now)
			if err != nil {
				return err
			}

			state := calendar.NewState(a.store, view, date, calendar.Options{
				WeekStart:      a.cfg.Weekday(),
				MonthMaxEvents: a.cfg.Layout.MonthMaxEvents,
			})
			fmt.Fprintln(os.Stdout, render.Agenda(state.Recompute(now), render.DefaultStyles(), c.Int("width")))
			return nil
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Capture the calendar page to a PNG with headless Chromium.",
		Flags: append(viewFlags(),
			&cli.StringFlag{Name: "output", Usage: "PNG path (overrides capture.output)"},
		),
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			a.refreshOnce(ctx)

			now := time.Now().In(a.loc)
			view, date, err := resolveView(c, a, now)
			if err != nil {
				return err
			}

			opts := capture.FromConfig(a.cfg.Capture, "")
			if o := c.String("output"); o != "" {
				opts.OutputPath = o
			}

			// Without a configured URL, serve the page ourselves on a
			// loopback port for the duration of the capture.
			if opts.URL == "" {
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
				httpSrv := &http.Server{Handler: web.NewServer(a.cfg, a.store, a.importer).Handler()}
				go func() { _ = httpSrv.Serve(ln) }()
				defer httpSrv.Close()

				q := url.Values{"view": {string(view)}, "date": {date.Format(time.DateOnly)}}
				opts.URL = "http://" + ln.Addr().String() + "/calendar?" + q.Encode()
				if a.cfg.BasicAuth != nil && a.cfg.BasicAuth.Username != "" {
					u, _ := url.Parse(opts.URL)
					u.User = url.UserPassword(a.cfg.BasicAuth.Username, a.cfg.BasicAuth.Password)
					opts.URL = u.String()
				}
			}

			if err := capture.CaptureToFile(ctx, opts); err != nil {
				return err
			}
			appLog.Info("snapshot written", "path", opts.OutputPath)
			return nil
		},
	}
}
