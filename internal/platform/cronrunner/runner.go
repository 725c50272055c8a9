package cronrunner

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// Runner schedules jobs on a seconds-resolution cron. Overlapping runs of the
// same job are skipped, and panics are recovered and logged.
type Runner struct {
	cron    *cron.Cron
	logger  *logging.Logger
	baseCtx context.Context
}

func New(baseCtx context.Context, logger *logging.Logger) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(name, spec string, job func(context.Context)) (cron.EntryID, error) {
	wrapped := cron.NewChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	).Then(cron.FuncJob(func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("cron job panicked", "job", name, "panic", rec)
			}
		}()
		job(r.baseCtx)
	}))

	id, err := r.cron.AddJob(spec, wrapped)
	if err != nil {
		return 0, fmt.Errorf("schedule job %s with spec %q: %w", name, spec, err)
	}
	r.logger.Info("cron job scheduled", "job", name, "spec", spec)
	return id, nil
}

func (r *Runner) Start() {
	r.logger.Info("cron started", "entries", len(r.cron.Entries()))
	r.cron.Start()
}

// Stop waits for running jobs to return.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("cron stopped")
}
