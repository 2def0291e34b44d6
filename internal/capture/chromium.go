// Package capture renders the /calendar page to a PNG with headless Chromium.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"studycal/internal/atomicfile"
	appLog "studycal/internal/log"
)

// Default capture parameters. The /calendar page lays out a full month in
// this viewport without scrolling.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 960
	DefaultTimeoutSec = 30
)

// ReadySelector matches the page root once the grid has been rendered.
const ReadySelector = `[data-ready="true"]`

var (
	ErrNoURL    = errors.New("capture: URL is required")
	ErrNoOutput = errors.New("capture: OutputPath is required")
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar?mode=week".
	URL string

	// OutputPath is where the PNG will be written.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. Zero means
	// DefaultWidth / DefaultHeight.
	Width  int
	Height int

	// Timeout bounds the entire capture. Zero means DefaultTimeoutSec.
	Timeout time.Duration

	// Username and Password are sent as HTTP Basic credentials when set.
	Username string
	Password string
}

// Normalize validates opts and fills in defaults.
func (o *Options) Normalize() error {
	if o.URL == "" {
		return ErrNoURL
	}
	if o.OutputPath == "" {
		return ErrNoOutput
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return nil
}

// CalendarPNG navigates headless Chromium to opts.URL, waits for
// ReadySelector and writes a full-page PNG to opts.OutputPath.
func CalendarPNG(parentCtx context.Context, opts Options) error {
	if err := opts.Normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
	}
	if opts.Username != "" {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			return setBasicAuth(ctx, opts.Username, opts.Password)
		}))
	}
	tasks = append(tasks,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := atomicfile.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("calendar captured", "path", opts.OutputPath, "bytes", len(png), "elapsed", time.Since(start).String())
	return nil
}
