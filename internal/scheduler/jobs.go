package scheduler

import (
	"context"

	"studycal/internal/ics"
	appLog "studycal/internal/log"
)

const (
	JobAutosave = "autosave"
	JobRefresh  = "refresh"
)

// Snapshotter persists the event store.
type Snapshotter interface {
	SaveSnapshot(path string) error
}

// Syncer refreshes ICS subscriptions.
type Syncer interface {
	Sync(ctx context.Context) (ics.SyncReport, error)
}

// AutosaveJob snapshots the store to path.
func AutosaveJob(spec string, s Snapshotter, path string) Job {
	return Job{
		Name: JobAutosave,
		Spec: spec,
		Run: func(context.Context) error {
			return s.SaveSnapshot(path)
		},
	}
}

// RefreshJob re-imports every ICS subscription. Failed sources are logged by
// the syncer; the job only fails when nothing could be refreshed.
func RefreshJob(spec string, s Syncer) Job {
	return Job{
		Name: JobRefresh,
		Spec: spec,
		Run: func(ctx context.Context) error {
			report, err := s.Sync(ctx)
			if err != nil && report.Failed < report.Sources {
				appLog.Warn("ics refresh partially failed", "failed", report.Failed, "sources", report.Sources)
				return nil
			}
			return err
		},
	}
}
