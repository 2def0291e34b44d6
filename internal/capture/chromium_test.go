package capture_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studycal/internal/capture"
)

func TestOptionsNormalize(t *testing.T) {
	opts := capture.Options{URL: "http://127.0.0.1:8080/calendar", OutputPath: "out.png"}
	if err := opts.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if opts.Width != capture.DefaultWidth || opts.Height != capture.DefaultHeight {
		t.Errorf("viewport = %dx%d", opts.Width, opts.Height)
	}
	if opts.Timeout != capture.DefaultTimeoutSec*time.Second {
		t.Errorf("timeout = %v", opts.Timeout)
	}

	custom := capture.Options{URL: "u", OutputPath: "o", Width: 800, Height: 600, Timeout: time.Second}
	if err := custom.Normalize(); err != nil || custom.Width != 800 || custom.Timeout != time.Second {
		t.Errorf("custom options changed: %+v (%v)", custom, err)
	}
}

func TestCalendarPNGRequiresTarget(t *testing.T) {
	tests := []struct {
		name string
		opts capture.Options
		want error
	}{
		{name: "No URL", opts: capture.Options{OutputPath: "o.png"}, want: capture.ErrNoURL},
		{name: "No output", opts: capture.Options{URL: "http://x"}, want: capture.ErrNoOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := capture.CalendarPNG(context.Background(), tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
