package scheduler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"studycal/internal/ics"
	"studycal/internal/model"
	"studycal/internal/scheduler"
	"studycal/internal/store"
)

func TestAddValidates(t *testing.T) {
	s := scheduler.New(time.UTC)
	noop := func(context.Context) error { return nil }

	if err := s.Add(scheduler.Job{Name: "a", Spec: "*/5 * * * *", Run: noop}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(scheduler.Job{Name: "a", Spec: "@hourly", Run: noop}); !errors.Is(err, scheduler.ErrDuplicateJob) {
		t.Errorf("duplicate err = %v", err)
	}
	if err := s.Add(scheduler.Job{Name: "b", Spec: "every now and then", Run: noop}); err == nil {
		t.Error("bad spec accepted")
	}
	if err := s.Add(scheduler.Job{Name: "c", Spec: "@hourly"}); err == nil {
		t.Error("job without run func accepted")
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(time.UTC)
	if err := s.Add(scheduler.Job{Name: "a", Spec: "@every 1h", Run: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Start()
	if next := s.Entries()[0].Next; next.IsZero() {
		t.Error("Next not set after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestAutosaveJob(t *testing.T) {
	st := store.New()
	st.AddOrUpdate(model.Event{ID: "e1", Title: "Exam", Date: "2024-10-10", Time: "09:00", Color: "#FF5733"})
	path := filepath.Join(t.TempDir(), "events.yaml")

	s := scheduler.New(time.UTC)
	if err := s.Add(scheduler.AutosaveJob("*/5 * * * *", st, path)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.RunNow(context.Background(), scheduler.JobAutosave); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	loaded := store.New()
	if err := loaded.LoadSnapshot(path); err != nil || loaded.Len() != 1 {
		t.Errorf("reload = (%d, %v)", loaded.Len(), err)
	}

	if err := s.RunNow(context.Background(), "missing"); !errors.Is(err, scheduler.ErrUnknownJob) {
		t.Errorf("unknown job err = %v", err)
	}
}

type fakeSyncer struct {
	report ics.SyncReport
	err    error
}

func (f fakeSyncer) Sync(context.Context) (ics.SyncReport, error) { return f.report, f.err }

func TestRefreshJob(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		syncer  fakeSyncer
		wantErr bool
	}{
		{name: "All ok", syncer: fakeSyncer{report: ics.SyncReport{Sources: 2}}},
		{name: "Partial failure", syncer: fakeSyncer{report: ics.SyncReport{Sources: 2, Failed: 1}, err: boom}},
		{name: "Total failure", syncer: fakeSyncer{report: ics.SyncReport{Sources: 2, Failed: 2}, err: boom}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := scheduler.RefreshJob("@hourly", tt.syncer)
			err := job.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
