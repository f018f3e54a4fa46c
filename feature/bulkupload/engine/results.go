package engine

import (
	"context"
	"strings"
	"time"

	"bulk-ingest/core/entryservice"
	corelogger "bulk-ingest/core/logger"
	"bulk-ingest/feature/bulkupload/models"

	"go.uber.org/zap"
)

// capExhausted reports whether the emitted results already exceed the per-run cap.
func (r *run) capExhausted() bool {
	return r.job.MaxRecordsPerRun > 0 && r.state.ResultCount > r.job.MaxRecordsPerRun
}

// createResult builds the result of the current item. It returns nil once the cap is
// exhausted; the item then yields no result in this invocation.
// A malformed schedule date produces a failed result.
func (r *run) createResult(ctx context.Context, item *models.Item) *models.UploadResult {
	if r.capExhausted() {
		if !r.state.Exceeded {
			r.logger.Info("Max records per run exceeded",
				zap.Int("line", r.state.CurrentItem),
				zap.Int("results", r.state.ResultCount),
			)
		}
		r.state.Exceeded = true
		return nil
	}

	result := &models.UploadResult{
		JobID:     r.job.ID,
		LineIndex: r.state.CurrentItem,
		PartnerID: r.job.PartnerID,
		EntryID:   strings.TrimSpace(item.EntryID),
		Action:    item.ActionName(),
		Status:    entryservice.EntryStatusImport,
		RowData:   item.Raw(),
		CreatedAt: r.now().UTC(),
	}
	result.IngestionProfileID, result.AccessControlProfileID = r.reportedIDs(ctx, item)

	// Both dates are checked. When both are malformed the end date is reported.
	var start, end *time.Time
	if item.StartDate != nil && strings.TrimSpace(*item.StartDate) != "" {
		if t, ok := parseDate(item.StartDate); ok {
			start = &t
		} else {
			result.ErrorDescription = "Invalid schedule start date " + *item.StartDate + " on item " + item.Name
		}
	}
	if item.EndDate != nil && strings.TrimSpace(*item.EndDate) != "" {
		if t, ok := parseDate(item.EndDate); ok {
			end = &t
		} else {
			result.ErrorDescription = "Invalid schedule end date " + *item.EndDate + " on item " + item.Name
		}
	}
	if result.ErrorDescription != "" {
		result.Status = entryservice.EntryStatusErrorImporting
		return result
	}
	result.ScheduleStartDate = start
	result.ScheduleEndDate = end
	return result
}

// reportedIDs resolves the ids echoed on the result. Failures leave them unset.
func (r *run) reportedIDs(ctx context.Context, item *models.Item) (ingestionProfileID, accessControlID *int) {
	var err error
	if ingestionProfileID, err = r.resolver.IngestionProfileID(ctx, item); err != nil {
		r.logger.Debug("Ingestion profile not resolved for result", zap.String("item", item.Name), zap.Error(err))
		ingestionProfileID = nil
	}
	if accessControlID, err = r.resolver.AccessControlID(ctx, item); err != nil {
		r.logger.Debug("Access control not resolved for result", zap.String("item", item.Name), zap.Error(err))
		accessControlID = nil
	}
	return ingestionProfileID, accessControlID
}

func (r *run) emit(item *models.Item, result *models.UploadResult) {
	r.state.ResultCount++
	r.report.Results = append(r.report.Results, result)
	if result.Failed() {
		r.report.Failed++
		corelogger.WithItem(r.logger, result.LineIndex, item.Name).Error("Item failed",
			zap.String("action", result.Action),
			zap.String("error", result.ErrorDescription),
		)
	}
}

// emitError reports a per-item failure, unless the cap is exhausted.
func (r *run) emitError(ctx context.Context, item *models.Item, err error) {
	result := r.createResult(ctx, item)
	if result == nil {
		return
	}
	result.Status = entryservice.EntryStatusErrorImporting
	result.ErrorDescription = err.Error()
	result.ScheduleStartDate = nil
	result.ScheduleEndDate = nil
	r.emit(item, result)
}
