package schedulersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/mahudhurio/core"
)

// Job is a unit of scheduled work. It must return once ctx is done.
type Job func(ctx context.Context) error

// Scheduler runs jobs on standard 5-field cron specs. A job never overlaps with itself.
type Scheduler struct {
	cron    *cron.Cron
	logger  core.Logger
	timeout time.Duration
}

// cronLogger reports cron internals through a core.Logger.
type cronLogger struct {
	logger core.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{err}, keysAndValues...)...)
}

// New returns a stopped Scheduler. Each run is cancelled after timeout (no limit when <= 0).
func New(logger core.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:  logger,
		timeout: timeout,
	}
}

func (s *Scheduler) Add(name, spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if s.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
		}
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error(fmt.Sprintf("scheduled job %q failed", name), errors.Wrap(err, name))
			return
		}
		s.logger.Info(fmt.Sprintf("scheduled job %q done in %v", name, time.Since(start)))
	})
	if err != nil {
		return 0, errors.Wrapf(err, "scheduling %q with %q", name, spec)
	}
	return id, nil
}

// run executes the job of entry id now, the way the cron would.
func (s *Scheduler) run(id cron.EntryID) {
	if e := s.cron.Entry(id); e.Valid() {
		e.WrappedJob.Run()
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for the running ones, at most until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for scheduled jobs")
	}
}
