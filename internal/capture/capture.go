// Package capture screenshots the /calendar page with headless Chromium.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"calgrid/internal/config"
	appLog "calgrid/internal/log"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 960
	DefaultTimeout = 30 * time.Second

	// ReadySelector is present once the page has laid out every event.
	ReadySelector = `[data-ready="true"]`
)

var (
	ErrNoURL    = errors.New("capture: URL is required")
	ErrNoOutput = errors.New("capture: output path is required")
)

// Options defines a single screenshot.
type Options struct {
	URL        string
	OutputPath string
	Width      int
	Height     int
	Timeout    time.Duration
}

// FromConfig builds Options from the capture config. fallbackURL is used
// when the config leaves URL empty.
func FromConfig(c config.CaptureConfig, fallbackURL string) Options {
	o := Options{
		URL:        c.URL,
		OutputPath: c.Output,
		Width:      c.Width,
		Height:     c.Height,
	}
	if o.URL == "" {
		o.URL = fallbackURL
	}
	return o
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return ErrNoURL
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// CapturePNG navigates to opts.URL, waits for ReadySelector and returns a
// full-page PNG.
func CapturePNG(parent context.Context, opts Options) ([]byte, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		// let the last paint land
		chromedp.Sleep(300 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	appLog.Info("capture completed", "url", opts.URL, "bytes", len(png), "elapsed", time.Since(start).String())
	return png, nil
}

// CaptureToFile captures and writes the PNG to opts.OutputPath.
func CaptureToFile(ctx context.Context, opts Options) error {
	if opts.OutputPath == "" {
		return ErrNoOutput
	}
	png, err := CapturePNG(ctx, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
