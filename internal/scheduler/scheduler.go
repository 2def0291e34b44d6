// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "studycal/internal/log"
)

var (
	ErrDuplicateJob = errors.New("scheduler: duplicate job")
	ErrUnknownJob   = errors.New("scheduler: unknown job")
)

// Job is a unit of background work. Run receives a context that is cancelled
// when the scheduler stops.
type Job struct {
	Name string
	// Spec is a standard five-field cron expression or a descriptor such as
	// "@hourly" or "@every 10m".
	Spec string
	Run  func(ctx context.Context) error
}

// Entry describes a registered job.
type Entry struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]registered
}

type registered struct {
	job Job
	id  cron.EntryID
}

// New creates a scheduler evaluating specs in loc. Overlapping runs of the
// same job are skipped and panics are recovered.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]registered),
	}
}

// Add registers a job. The spec is validated immediately.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("scheduler: job needs a name and a run func")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name)
	}
	id, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("scheduler: job %s: bad spec %q: %w", job.Name, job.Spec, err)
	}
	s.jobs[job.Name] = registered{job: job, id: id}
	appLog.Debug("scheduler job added", "job", job.Name, "spec", job.Spec)
	return nil
}

// RunNow runs a registered job synchronously, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	reg, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return reg.job.Run(ctx)
}

// Entries lists registered jobs. Next is zero until Start.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.jobs))
	for _, reg := range s.jobs {
		e := s.cron.Entry(reg.id)
		out = append(out, Entry{Name: reg.job.Name, Spec: reg.job.Spec, Next: e.Next, Prev: e.Prev})
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
	appLog.Info("scheduler started", "jobs", len(s.Entries()))
}

// Stop prevents new runs, cancels the context of running jobs and waits for
// them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		appLog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: stop: %w", ctx.Err())
	}
}

func (s *Scheduler) run(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		appLog.Error("scheduler job failed", err, "job", job.Name, "elapsed", time.Since(start).String())
		return
	}
	appLog.Debug("scheduler job done", "job", job.Name, "elapsed", time.Since(start).String())
}

// cronLogger routes cron's internal logging through the app logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	appLog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	appLog.Error("cron: "+msg, err, kv...)
}
