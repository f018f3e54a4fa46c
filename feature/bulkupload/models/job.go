package models

import "time"

// JobStatus is the lifecycle state of a bulk upload job.
type JobStatus string

const (
	// JobStatusPending jobs still have items to process.
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusAborted   JobStatus = "aborted"
)

// Job is a bulk upload job processed over one or more invocations.
type Job struct {
	ID                 string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	PartnerID          int       `gorm:"column:partner_id" json:"partner_id"`
	Source             string    `gorm:"column:source" json:"source"`
	Status             JobStatus `gorm:"column:status;index;size:16" json:"status"`
	StartIndex         int       `gorm:"column:start_index" json:"start_index"`
	MaxRecordsPerRun   int       `gorm:"column:max_records_per_run" json:"max_records_per_run"`
	IngestionProfileID *int      `gorm:"column:ingestion_profile_id" json:"ingestion_profile_id,omitempty"`
	AbortRequested     bool      `gorm:"column:abort_requested" json:"abort_requested"`
	Invocations        int       `gorm:"column:invocations" json:"invocations"`
	Processed          int       `gorm:"column:processed" json:"processed"`
	Failed             int       `gorm:"column:failed" json:"failed"`
	Error              string    `gorm:"column:error;type:text" json:"error,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for jobs.
func (Job) TableName() string {
	return "bulk_upload_jobs"
}

// Done reports whether the job needs no further invocation.
func (j *Job) Done() bool {
	return j.Status != JobStatusPending
}
