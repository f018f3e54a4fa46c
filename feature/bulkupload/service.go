package bulkupload

import (
	"bytes"
	"context"

	"bulk-ingest/core/schema"
	"bulk-ingest/feature/bulkupload/engine"
	"bulk-ingest/feature/bulkupload/jobs"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobRequest holds the job parameters given on submission.
type JobRequest struct {
	PartnerID          int
	MaxRecordsPerRun   int
	IngestionProfileID *int
}

// Defaults are applied to submissions that leave a parameter unset.
type Defaults struct {
	MaxRecordsPerRun   int
	IngestionProfileID *int
}

// Service handles bulk upload job operations.
type Service struct {
	repo     *jobs.Repository
	source   *jobs.Source
	schema   *schema.Schema
	defaults Defaults
	logger   *zap.Logger
}

// NewService creates a new bulk upload service.
func NewService(repo *jobs.Repository, source *jobs.Source, s *schema.Schema, defaults Defaults, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		source:   source,
		schema:   s,
		defaults: defaults,
		logger:   logger,
	}
}

// Validate returns the schema violations of a document.
func (s *Service) Validate(doc []byte) []schema.Violation {
	return s.schema.Validate(bytes.NewReader(doc))
}

// CreateJob validates the document, stores it and creates a pending job for the scheduler.
func (s *Service) CreateJob(ctx context.Context, req JobRequest, doc []byte) (*models.Job, []schema.Violation, error) {
	if violations := s.Validate(doc); len(violations) > 0 {
		return nil, violations, errors.Wrapf(engine.ErrSchemaValidation, "%d violations", len(violations))
	}

	job := &models.Job{
		ID:                 uuid.NewString(),
		PartnerID:          req.PartnerID,
		MaxRecordsPerRun:   req.MaxRecordsPerRun,
		IngestionProfileID: req.IngestionProfileID,
		Status:             models.JobStatusPending,
	}
	if job.MaxRecordsPerRun <= 0 {
		job.MaxRecordsPerRun = s.defaults.MaxRecordsPerRun
	}
	if job.IngestionProfileID == nil {
		job.IngestionProfileID = s.defaults.IngestionProfileID
	}

	location, err := s.source.Store(ctx, job.ID, doc)
	if err != nil {
		return nil, nil, err
	}
	job.Source = location

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, nil, err
	}
	s.logger.Info("Bulk upload job created",
		zap.String("job_id", job.ID),
		zap.Int("partner_id", job.PartnerID),
		zap.String("source", job.Source),
	)
	return job, nil, nil
}

// GetJob returns a job by id.
func (s *Service) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.repo.GetJob(ctx, id)
}

// Results returns the stored results of a job.
func (s *Service) Results(ctx context.Context, id string) ([]models.UploadResult, error) {
	if _, err := s.repo.GetJob(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Results(ctx, id)
}

// Abort requests the job to stop before its next item.
func (s *Service) Abort(ctx context.Context, id string) error {
	return s.repo.RequestAbort(ctx, id)
}
