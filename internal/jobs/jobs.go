// Package jobs runs background maintenance on cron schedules while the
// server is up.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/metrics"
	"github.com/julianstephens/lifequest/internal/tasks"
)

// DefaultTimeout bounds a single job run.
const DefaultTimeout = time.Minute

// Func is one unit of scheduled work.
type Func func(ctx context.Context) error

type Runner struct {
	cron    *cron.Cron
	base    context.Context
	timeout time.Duration
}

// New returns a Runner that evaluates schedules in loc.
func New(loc *time.Location) *Runner {
	if loc == nil {
		loc = time.Local
	}
	return &Runner{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
		),
		base:    context.Background(),
		timeout: DefaultTimeout,
	}
}

// Add registers fn under name on a standard five-field cron spec.
func (r *Runner) Add(name, spec string, fn Func) error {
	if _, err := r.cron.AddFunc(spec, func() { r.run(name, fn) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	logger.Debug("Scheduled job", "job", name, "spec", spec)
	return nil
}

// Start begins firing jobs. Runs are cancelled when ctx is.
func (r *Runner) Start(ctx context.Context) {
	r.base = ctx
	r.cron.Start()
}

// Stop prevents new runs and waits for running ones, giving up when ctx
// expires.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Timed out waiting for jobs to finish")
	}
}

func (r *Runner) run(name string, fn Func) error {
	ctx, cancel := context.WithTimeout(r.base, r.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	metrics.RecordJob(name, elapsed, err == nil)

	if err != nil {
		logger.Error("Job failed", "job", name, "duration", elapsed, "error", err)
		return err
	}
	logger.Info("Job finished", "job", name, "duration", elapsed)
	return nil
}

// DailyReset reopens completed daily tasks.
func DailyReset(t *tasks.Tracker) Func {
	return func(ctx context.Context) error {
		_, err := t.ResetDaily(ctx)
		return err
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
