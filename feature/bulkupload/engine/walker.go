package engine

import (
	"context"
	"strings"
	"time"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// run is the state of one invocation. It is discarded when the invocation ends.
type run struct {
	client   entryservice.Client
	resolver *Resolver
	hooks    []Hook
	logger   *zap.Logger
	now      func() time.Time

	job    Job
	state  RunState
	report *Report
}

// walk processes the channels in document order.
func (r *run) walk(ctx context.Context, feed *models.Feed) error {
	for c := range feed.Channels {
		r.state.CurrentItem = 0

		for i := range feed.Channels[c].Items {
			item := &feed.Channels[c].Items[i]

			if r.state.CurrentItem < r.job.StartIndex {
				r.state.CurrentItem++
				continue
			}
			if r.state.Exceeded {
				return nil
			}
			if ctx.Err() != nil || (r.job.Aborted != nil && r.job.Aborted(ctx)) {
				return errors.Wrapf(ErrAborted, "job %s stopped before line %d", r.job.ID, r.state.CurrentItem+1)
			}

			r.state.CurrentItem++
			r.report.Processed++

			if err := r.handleItem(ctx, item); err != nil {
				if !IsItemError(err) {
					return errors.Wrapf(err, "line %d", r.state.CurrentItem)
				}
				r.emitError(ctx, item, err)
			}
		}
	}
	return nil
}

func (r *run) handleItem(ctx context.Context, item *models.Item) error {
	if err := validateTypedElements(item); err != nil {
		return err
	}

	switch action := item.ActionName(); action {
	case models.ActionAdd:
		return r.handleAdd(ctx, item)
	case models.ActionUpdate:
		return r.handleUpdate(ctx, item)
	case models.ActionDelete:
		return r.handleDelete(ctx, item)
	default:
		return errors.Wrapf(ErrUnsupportedAction, "action %q on item [%s]", action, item.Name)
	}
}

func requireEntryID(item *models.Item) (string, error) {
	entryID := strings.TrimSpace(item.EntryID)
	if entryID == "" {
		return "", newItemError(KindMissingMandatoryParameter, "Missing entry id element")
	}
	return entryID, nil
}

func (r *run) handleAdd(ctx context.Context, item *models.Item) error {
	return r.handleUpsert(ctx, item, "")
}

func (r *run) handleUpdate(ctx context.Context, item *models.Item) error {
	entryID, err := requireEntryID(item)
	if err != nil {
		return err
	}
	return r.handleUpsert(ctx, item, entryID)
}

// handleUpsert creates the entry when entryID is empty and updates it otherwise.
func (r *run) handleUpsert(ctx context.Context, item *models.Item, entryID string) error {
	entry, err := r.buildEntry(ctx, item)
	if err != nil {
		return err
	}
	descriptors, err := r.buildAssets(ctx, item, entryID, entry.IngestionProfileID)
	if err != nil {
		return err
	}
	plan := planAssets(descriptors)

	result := r.createResult(ctx, item)
	if result == nil {
		return nil
	}
	if result.Failed() {
		r.emit(item, result)
		return nil
	}

	saved, err := r.submitEntry(ctx, entryID, entry, plan)
	if err != nil {
		return err
	}
	result.EntryID = saved.ID
	r.emit(item, result)

	if err := r.patchMetadata(ctx, saved.ID, plan.known); err != nil {
		var apiErr *entryservice.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		r.logger.Warn("Asset metadata patch failed",
			zap.Int("line", r.state.CurrentItem),
			zap.String("entry_id", saved.ID),
			zap.Error(err),
		)
	}

	r.runHooks(ctx, item, saved, entryID == "")
	return nil
}

func (r *run) runHooks(ctx context.Context, item *models.Item, entry *entryservice.Entry, added bool) {
	for _, h := range r.hooks {
		var err error
		if added {
			err = h.OnAdded(ctx, r.client, entry, item)
		} else {
			err = h.OnUpdated(ctx, r.client, entry, item)
		}
		if err != nil {
			r.logger.Warn("Hook failed",
				zap.Int("line", r.state.CurrentItem),
				zap.String("entry_id", entry.ID),
				zap.Bool("added", added),
				zap.Error(err),
			)
		}
	}
}

func (r *run) handleDelete(ctx context.Context, item *models.Item) error {
	entryID, err := requireEntryID(item)
	if err != nil {
		return err
	}

	result := r.createResult(ctx, item)
	if result == nil {
		return nil
	}
	if result.Failed() {
		r.emit(item, result)
		return nil
	}

	if err := r.client.DeleteEntry(ctx, entryID); err != nil {
		return remoteItemError(err)
	}
	r.emit(item, result)
	return nil
}
