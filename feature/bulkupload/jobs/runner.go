package jobs

import (
	"context"
	"fmt"

	corelogger "bulk-ingest/core/logger"
	"bulk-ingest/feature/bulkupload/engine"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Runner invokes the engine for stored jobs and records each invocation.
type Runner struct {
	engine         *engine.Engine
	repo           *Repository
	source         *Source
	logger         *zap.Logger
	maxInvocations int
}

// NewRunner creates a runner. maxInvocations bounds how many times one job is invoked.
func NewRunner(eng *engine.Engine, repo *Repository, source *Source, logger *zap.Logger, maxInvocations int) *Runner {
	return &Runner{
		engine:         eng,
		repo:           repo,
		source:         source,
		logger:         logger,
		maxInvocations: maxInvocations,
	}
}

func (r *Runner) engineJob(job *models.Job) engine.Job {
	return engine.Job{
		ID:                 job.ID,
		PartnerID:          job.PartnerID,
		MaxRecordsPerRun:   job.MaxRecordsPerRun,
		StartIndex:         job.StartIndex,
		IngestionProfileID: job.IngestionProfileID,
		Aborted: func(ctx context.Context) bool {
			aborted, err := r.repo.AbortRequested(ctx, job.ID)
			if err != nil {
				corelogger.WithJob(r.logger, job.ID, job.PartnerID).Warn("Abort check failed", zap.Error(err))
				return false
			}
			return aborted
		},
	}
}

// Step runs one invocation of the job from its stored offset and records the outcome.
// A fatal engine error fails the job and is returned after recording.
func (r *Runner) Step(ctx context.Context, job *models.Job) (*engine.Report, error) {
	if job.Done() {
		return &engine.Report{NextStartIndex: job.StartIndex}, nil
	}
	logger := corelogger.WithJob(r.logger, job.ID, job.PartnerID)

	doc, err := r.source.Load(ctx, job.Source)
	if err != nil {
		if markErr := r.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			logger.Error("Failed to mark job failed", zap.Error(markErr))
		}
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		return nil, err
	}

	report, runErr := r.engine.Run(ctx, doc, r.engineJob(job))

	job.Invocations++
	job.StartIndex = report.NextStartIndex
	job.Processed += report.Processed
	job.Failed += report.Failed

	switch {
	case errors.Is(runErr, engine.ErrAborted):
		job.Status = models.JobStatusAborted
		job.Error = runErr.Error()
	case runErr != nil:
		job.Status = models.JobStatusFailed
		job.Error = runErr.Error()
	case !report.ExceededMaxRecords:
		job.Status = models.JobStatusCompleted
	case r.maxInvocations > 0 && job.Invocations >= r.maxInvocations:
		job.Status = models.JobStatusFailed
		job.Error = fmt.Sprintf("max invocations reached at item %d", job.StartIndex)
	}

	// Persist with a fresh context so an aborted run still records what it emitted.
	if err := r.repo.RecordInvocation(context.WithoutCancel(ctx), job, report.Results); err != nil {
		return report, err
	}

	logger.Info("Job invocation recorded",
		zap.Int("invocation", job.Invocations),
		zap.Int("results", len(report.Results)),
		zap.Int("next_start_index", job.StartIndex),
		zap.String("status", string(job.Status)),
	)
	return report, runErr
}

// Drain invokes the job until it is no longer pending.
func (r *Runner) Drain(ctx context.Context, job *models.Job) ([]*engine.Report, error) {
	var reports []*engine.Report
	for !job.Done() {
		report, err := r.Step(ctx, job)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}
