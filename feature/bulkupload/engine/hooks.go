package engine

import (
	"context"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/feature/bulkupload/models"
)

// Hook is notified after each successful add or update. Hooks run in registration order
// with the impersonated client of the run. A hook error is logged and never fails the item.
type Hook interface {
	OnAdded(ctx context.Context, client entryservice.Client, entry *entryservice.Entry, item *models.Item) error
	OnUpdated(ctx context.Context, client entryservice.Client, entry *entryservice.Entry, item *models.Item) error
}
