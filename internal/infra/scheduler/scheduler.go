package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/homerent/server/internal/infra/config"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/inbound"
	"go.uber.org/zap"
)

// Job names as registered with the scheduler.
const (
	JobAutoRenew = "landlord-subscription-auto-renew"
	JobExpiry    = "landlord-subscription-expiry"
)

// Scheduler runs the subscription sweeps on cron schedules.
type Scheduler struct {
	scheduler gocron.Scheduler
	sweeper   inbound.SweeperDomain
	jobs      map[string]gocron.Job
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
}

// New creates a scheduler with the auto-renew and expiry jobs registered.
func New(cfg *config.SchedulerConfig, sweeper inbound.SweeperDomain, logger *zap.Logger) (*Scheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	gs, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		scheduler: gs,
		sweeper:   sweeper,
		jobs:      make(map[string]gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}

	if err := s.register(JobAutoRenew, cfg.AutoRenewCron, sweeper.RunAutoRenewSweep); err != nil {
		cancel()
		_ = gs.Shutdown()
		return nil, err
	}
	if err := s.register(JobExpiry, cfg.ExpiryCron, sweeper.RunExpirySweep); err != nil {
		cancel()
		_ = gs.Shutdown()
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) register(name, crontab string, fn func(context.Context) (*model.SweepResult, error)) error {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(s.run, name, fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.jobs[name] = job
	return nil
}

func (s *Scheduler) run(name string, fn func(context.Context) (*model.SweepResult, error)) {
	result, err := fn(s.ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("scheduled sweep finished",
		zap.String("job", name),
		zap.Int("scanned", result.Scanned),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting subscription scheduler", zap.Int("jobs", len(s.jobs)))
	s.scheduler.Start()
}

// Stop cancels running sweeps and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping subscription scheduler")
	s.cancel()
	return s.scheduler.Shutdown()
}

// NextRuns returns the next scheduled run of every job, keyed by job name.
// Jobs whose next run cannot be computed are left out.
func (s *Scheduler) NextRuns() map[string]time.Time {
	runs := make(map[string]time.Time, len(s.jobs))
	for name, job := range s.jobs {
		next, err := job.NextRun()
		if err != nil {
			continue
		}
		runs[name] = next
	}
	return runs
}
