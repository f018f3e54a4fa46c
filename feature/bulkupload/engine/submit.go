package engine

import (
	"context"
	"fmt"

	"bulk-ingest/core/entryservice"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// assetPlan splits the descriptors of one item by whether their params are known.
type assetPlan struct {
	container *entryservice.ResourceContainer
	noParams  []*assetDescriptor
	known     []*assetDescriptor
}

func planAssets(descriptors []*assetDescriptor) assetPlan {
	plan := assetPlan{container: &entryservice.ResourceContainer{}}
	var flavors, thumbs []*assetDescriptor

	for _, d := range descriptors {
		if d.paramsID != nil {
			plan.known = append(plan.known, d)
			if d.resource != nil {
				plan.container.Resources = append(plan.container.Resources, entryservice.AssetParamsResource{
					AssetParamsID: *d.paramsID,
					Resource:      d.resource,
				})
			}
			continue
		}
		if d.resource == nil {
			continue
		}
		if d.kind == entryservice.AssetKindFlavor {
			flavors = append(flavors, d)
		} else {
			thumbs = append(thumbs, d)
		}
	}
	plan.noParams = append(flavors, thumbs...)
	return plan
}

// submitEntry sends the primary call and the no-params asset adds as one transaction.
// entryID is empty for additions.
func (r *run) submitEntry(ctx context.Context, entryID string, entry *entryservice.Entry, plan assetPlan) (*entryservice.Entry, error) {
	tx := entryservice.NewTransaction()

	var primary entryservice.Ref
	if entryID == "" {
		primary = tx.AddEntry(entry, plan.container)
	} else {
		primary = tx.UpdateEntry(entryservice.EntryID(entryID), entry, plan.container)
	}

	for _, d := range plan.noParams {
		if d.kind == entryservice.AssetKindFlavor {
			tx.AddFlavorAsset(primary.EntryID(), d.flavor(), d.resource)
		} else {
			tx.AddThumbAsset(primary.EntryID(), d.thumb(), d.resource)
		}
	}

	results, err := r.client.Do(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to submit entry transaction: %w", err)
	}

	res := entryservice.Of(results, primary)
	if res.Err != nil {
		var apiErr *entryservice.APIError
		if errors.As(res.Err, &apiErr) {
			return nil, remoteItemError(res.Err)
		}
		return nil, newItemError(KindEntryNotCreated, "Entry was not created for item [%s]: %v", entry.Name, res.Err)
	}
	if res.Entry == nil || res.Entry.ID == "" {
		return nil, newItemError(KindEntryNotCreated, "Entry was not created for item [%s]", entry.Name)
	}

	for i, extra := range results {
		if i == primary.Index()-1 || extra.Err == nil {
			continue
		}
		r.logger.Warn("Asset add failed",
			zap.String("entry_id", res.Entry.ID),
			zap.Error(extra.Err),
		)
	}
	return res.Entry, nil
}

// patchMetadata updates the tags of assets created inline with the entry. Their ids are only
// known after creation, so they are matched by params id.
func (r *run) patchMetadata(ctx context.Context, entryID string, known []*assetDescriptor) error {
	if len(known) == 0 {
		return nil
	}

	flavors := make(map[int]*assetDescriptor)
	thumbs := make(map[int]*assetDescriptor)
	for _, d := range known {
		if d.kind == entryservice.AssetKindFlavor {
			flavors[*d.paramsID] = d
		} else {
			thumbs[*d.paramsID] = d
		}
	}

	list := entryservice.NewTransaction()
	flavorList := list.ListFlavorAssets(entryservice.EntryID(entryID))
	thumbList := list.ListThumbAssets(entryservice.EntryID(entryID))
	results, err := r.client.Do(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to list assets of entry %s: %w", entryID, err)
	}

	update := entryservice.NewTransaction()
	patch := func(res entryservice.Result, byParams map[int]*assetDescriptor) error {
		if res.Err != nil {
			return res.Err
		}
		for _, asset := range res.Assets {
			if asset.ParamsID == nil {
				continue
			}
			d, ok := byParams[*asset.ParamsID]
			if !ok {
				continue
			}
			if d.kind == entryservice.AssetKindFlavor {
				update.UpdateFlavorAsset(asset.ID, d.flavor())
			} else {
				update.UpdateThumbAsset(asset.ID, d.thumb())
			}
		}
		return nil
	}
	if err := patch(entryservice.Of(results, flavorList), flavors); err != nil {
		return fmt.Errorf("failed to list flavors of entry %s: %w", entryID, err)
	}
	if err := patch(entryservice.Of(results, thumbList), thumbs); err != nil {
		return fmt.Errorf("failed to list thumbnails of entry %s: %w", entryID, err)
	}

	if update.Len() == 0 {
		return nil
	}
	updated, err := r.client.Do(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update assets of entry %s: %w", entryID, err)
	}
	for _, res := range updated {
		if res.Err != nil {
			r.logger.Warn("Asset metadata update failed", zap.String("entry_id", entryID), zap.Error(res.Err))
		}
	}
	return nil
}
