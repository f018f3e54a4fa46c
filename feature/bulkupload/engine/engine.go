package engine

import (
	"bytes"
	"context"
	"time"

	"bulk-ingest/core/entryservice"
	corelogger "bulk-ingest/core/logger"
	"bulk-ingest/core/schema"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Engine ingests feed documents into the entry-management service.
// An Engine holds no per-run state and may serve consecutive runs.
type Engine struct {
	client entryservice.Client
	schema *schema.Schema
	hooks  []Hook
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks registers post-add and post-update hooks.
func WithHooks(hooks ...Hook) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, hooks...) }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used for default start dates and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine submitting to client and validating against s.
func New(client entryservice.Client, s *schema.Schema, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		schema: s,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the document against the schema. The returned error matches
// ErrSchemaValidation and carries one detail per violation.
func (e *Engine) Validate(doc []byte) error {
	violations := e.schema.Validate(bytes.NewReader(doc))
	if len(violations) == 0 {
		return nil
	}

	err := errors.Wrapf(ErrSchemaValidation, "%s", violations[0].String())
	if len(violations) > 1 {
		err = errors.Wrapf(err, "%d violations", len(violations))
	}
	for _, v := range violations {
		err = errors.WithDetail(err, v.String())
	}
	return err
}

// Run processes one invocation of the job over the document.
// Per-item failures are reported as error results. A fatal error stops the run and is
// returned together with the results emitted so far.
func (e *Engine) Run(ctx context.Context, doc []byte, job Job) (*Report, error) {
	report := &Report{NextStartIndex: job.StartIndex}

	if err := e.Validate(doc); err != nil {
		return report, err
	}
	feed, err := models.ParseFeedBytes(doc)
	if err != nil {
		return report, errors.Wrap(err, "failed to parse feed")
	}

	client := e.client.Impersonate(job.PartnerID)
	logger := corelogger.WithJob(e.logger, job.ID, job.PartnerID)

	r := &run{
		client:   client,
		resolver: NewResolver(client, job.IngestionProfileID, logger),
		hooks:    e.hooks,
		logger:   logger,
		now:      e.now,
		job:      job,
		report:   report,
	}

	logger.Info("Bulk upload run started",
		zap.Int("start_index", job.StartIndex),
		zap.Int("max_records", job.MaxRecordsPerRun),
	)

	walkErr := r.walk(ctx, feed)

	report.ExceededMaxRecords = r.state.Exceeded
	if r.state.Exceeded {
		report.NextStartIndex = r.state.CurrentItem - 1
	} else {
		report.NextStartIndex = r.state.CurrentItem
	}

	if walkErr != nil {
		return report, walkErr
	}

	logger.Info("Bulk upload run finished",
		zap.Int("processed", report.Processed),
		zap.Int("results", len(report.Results)),
		zap.Int("failed", report.Failed),
		zap.Bool("exceeded", report.ExceededMaxRecords),
	)
	return report, nil
}
