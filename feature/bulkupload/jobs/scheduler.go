package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scheduler steps every pending job once per interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    *Runner
	repo      *Repository
	logger    *zap.Logger
	interval  time.Duration
	// concurrency bounds the jobs stepped in parallel within one tick.
	concurrency int

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler running in UTC. Each tick steps at most
// concurrency jobs at once; values below one step them one after another.
func NewScheduler(runner *Runner, repo *Repository, interval time.Duration, concurrency int, logger *zap.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		runner:      runner,
		repo:        repo,
		logger:      logger,
		interval:    interval,
		concurrency: concurrency,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start registers the tick and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.interval <= 0 {
		return errors.Newf("invalid schedule interval %s", s.interval)
	}

	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(s.interval).Do(s.Tick, s.ctx); err != nil {
		return errors.Wrap(err, "failed to register bulk upload tick")
	}
	s.scheduler.StartAsync()
	s.started = true

	s.logger.Info("Bulk upload scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels in-flight invocations and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cancel()
	s.scheduler.Stop()
	s.started = false
	s.logger.Info("Bulk upload scheduler stopped")
}

// Tick steps each runnable job once. Jobs own separate runs, so they are stepped
// in parallel up to the configured concurrency. Failures are logged per job.
func (s *Scheduler) Tick(ctx context.Context) {
	jobs, err := s.repo.ListRunnable(ctx)
	if err != nil {
		s.logger.Error("Failed to list runnable jobs", zap.Error(err))
		return
	}

	g, ctxGroup := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range jobs {
		job := &jobs[i]
		g.Go(func() error {
			if ctxGroup.Err() != nil {
				return nil
			}
			if _, err := s.runner.Step(ctxGroup, job); err != nil {
				s.logger.Error("Job invocation failed", zap.String("job_id", job.ID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
