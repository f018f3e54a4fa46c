package models

import (
	"time"

	"bulk-ingest/core/entryservice"
)

// UploadResult is the outcome of one processed item.
type UploadResult struct {
	ID                     uint                     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	JobID                  string                   `gorm:"column:job_id;index:idx_job_line" json:"job_id"`
	LineIndex              int                      `gorm:"column:line_index;index:idx_job_line" json:"line_index"`
	PartnerID              int                      `gorm:"column:partner_id" json:"partner_id"`
	EntryID                string                   `gorm:"column:entry_id" json:"entry_id,omitempty"`
	Action                 string                   `gorm:"column:action" json:"action"`
	Status                 entryservice.EntryStatus `gorm:"column:status" json:"status"`
	RowData                string                   `gorm:"column:row_data;type:text" json:"row_data"`
	IngestionProfileID     *int                     `gorm:"column:ingestion_profile_id" json:"ingestion_profile_id"`
	AccessControlProfileID *int                     `gorm:"column:access_control_profile_id" json:"access_control_profile_id"`
	ErrorDescription       string                   `gorm:"column:error_description;type:text" json:"error_description,omitempty"`
	ScheduleStartDate      *time.Time               `gorm:"column:schedule_start_date" json:"schedule_start_date,omitempty"`
	ScheduleEndDate        *time.Time               `gorm:"column:schedule_end_date" json:"schedule_end_date,omitempty"`
	CreatedAt              time.Time                `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for upload results.
func (UploadResult) TableName() string {
	return "bulk_upload_results"
}

// Failed reports whether the item ended in error.
func (r *UploadResult) Failed() bool {
	return r.Status == entryservice.EntryStatusErrorImporting
}
