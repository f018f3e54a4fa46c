package jobs

import (
	"context"

	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrJobNotFound is returned when no job has the requested id.
var ErrJobNotFound = errors.New("bulk upload job not found")

// resultBatchSize bounds the rows inserted per statement.
const resultBatchSize = 100

// Repository is the job and result ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the ledger tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&models.Job{}, &models.UploadResult{}); err != nil {
		return errors.Wrap(err, "failed to migrate bulk upload tables")
	}
	return nil
}

// CreateJob stores a new pending job. An id is assigned when empty.
func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return errors.Wrapf(err, "failed to create job %s", job.ID)
	}
	return nil
}

// GetJob loads a job by id.
func (r *Repository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrJobNotFound, "job %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load job %s", id)
	}
	return &job, nil
}

// ListRunnable returns the pending jobs, oldest first.
func (r *Repository) ListRunnable(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", models.JobStatusPending).
		Order("created_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runnable jobs")
	}
	return jobs, nil
}

// RecordInvocation stores the results of one invocation and the updated job in one transaction.
func (r *Repository) RecordInvocation(ctx context.Context, job *models.Job, results []*models.UploadResult) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(results) > 0 {
			if err := tx.CreateInBatches(results, resultBatchSize).Error; err != nil {
				return errors.Wrap(err, "failed to store results")
			}
		}
		// abort_requested is owned by RequestAbort and may have changed since job was loaded
		err := tx.Model(job).
			Select("status", "start_index", "invocations", "processed", "failed", "error", "updated_at").
			Updates(job).Error
		if err != nil {
			return errors.Wrap(err, "failed to update job")
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to record invocation of job %s", job.ID)
	}
	return nil
}

// Results returns the stored results of a job in line order.
func (r *Repository) Results(ctx context.Context, jobID string) ([]models.UploadResult, error) {
	var results []models.UploadResult
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("line_index ASC, id ASC").
		Find(&results).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load results of job %s", jobID)
	}
	return results, nil
}

// MarkFailed sets the job as failed with reason.
func (r *Repository) MarkFailed(ctx context.Context, id, reason string) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": models.JobStatusFailed, "error": reason})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to mark job %s failed", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrJobNotFound, "job %s", id)
	}
	return nil
}

// RequestAbort flags a job so its next invocation stops before the next item.
func (r *Repository) RequestAbort(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("abort_requested", true)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to abort job %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrJobNotFound, "job %s", id)
	}
	return nil
}

// AbortRequested reports whether an abort was requested for the job.
func (r *Repository) AbortRequested(ctx context.Context, id string) (bool, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Select("abort_requested").Where("id = ?", id).First(&job).Error
	if err != nil {
		return false, errors.Wrapf(err, "failed to check abort of job %s", id)
	}
	return job.AbortRequested, nil
}
