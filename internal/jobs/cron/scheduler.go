package cronjob

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. It receives a context that ends when
// the scheduler stops.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

// NewScheduler parses six-field (seconds first) cron specs.
func NewScheduler(ctx context.Context) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  ctx,
	}
}

// Add registers job under name on schedule
func (s *Scheduler) Add(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		slog.Info("cron job started", "job", name)

		if err := job(s.ctx); err != nil {
			slog.Error("cron job failed", "job", name, "error", err)
			return
		}
		slog.Info("cron job completed", "job", name, "duration", time.Since(start))
	})
	return err
}

// Start runs the scheduler until ctx ends, then waits for running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("cron scheduler started", "entries", len(s.cron.Entries()))

	<-s.ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("cron scheduler stopped")
}
