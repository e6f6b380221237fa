package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs scrape passes on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *Pipeline
	logger   *slog.Logger
	ctx      context.Context //nolint:containedctx // jobs are bound to the scheduler's lifetime
}

// NewScheduler registers a scrape job for spec, a standard five-field cron expression.
// Jobs run with ctx; the scheduler does nothing until Start is called.
func NewScheduler(ctx context.Context, spec string, p *Pipeline, logger *slog.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		pipeline: p,
		logger:   logger,
		ctx:      ctx,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("scrape scheduled", "next", e.Next)
	}
}

// Stop prevents further runs and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduled scrape still running at shutdown")
	}
}

func (s *Scheduler) run() {
	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.pipeline.RunOnce(s.ctx); err != nil {
		if errors.Is(err, ErrScrapeInProgress) {
			s.logger.Info("scheduled scrape skipped, another scrape is running")
			return
		}
		s.logger.Error("scheduled scrape failed", "error", err)
	}
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
