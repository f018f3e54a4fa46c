package engine

import (
	"context"

	"bulk-ingest/feature/bulkupload/models"
)

// Job is the context of one engine invocation.
type Job struct {
	// ID identifies the bulk upload job the results belong to.
	ID string
	// PartnerID is the partner the job runs for. Remote calls impersonate it.
	PartnerID int
	// MaxRecordsPerRun is the per-invocation result cap.
	MaxRecordsPerRun int
	// StartIndex is the 0-based item ordinal to resume from in every channel.
	StartIndex int
	// IngestionProfileID is the run-level ingestion profile, used when an item names none.
	IngestionProfileID *int
	// Aborted is polled once per item. Nil means never aborted.
	Aborted func(ctx context.Context) bool
}

// Report is the outcome of one invocation.
type Report struct {
	// Results are the emitted item results in document order.
	Results []*models.UploadResult
	// ExceededMaxRecords is set when the cap stopped the invocation early.
	ExceededMaxRecords bool
	// NextStartIndex is the resume offset for the next invocation.
	NextStartIndex int
	// Processed counts the items dispatched in this invocation.
	Processed int
	// Failed counts the emitted error results.
	Failed int
}

// RunState is the walker state of one invocation.
type RunState struct {
	// CurrentItem is the 1-based ordinal of the item being processed in the current channel.
	CurrentItem int
	// ResultCount is the number of results emitted so far.
	ResultCount int
	// Exceeded is set once the cap is exhausted.
	Exceeded bool
}
