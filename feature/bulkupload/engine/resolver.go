package engine

import (
	"context"
	"fmt"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/core/utils"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// nameCache maps system names to ids. It is filled by a single list call.
type nameCache struct {
	populated bool
	ids       map[string]int
}

func (c *nameCache) fill(profiles []entryservice.Profile) {
	c.ids = make(map[string]int, len(profiles))
	for _, p := range profiles {
		if p.SystemName == "" {
			continue
		}
		c.ids[p.SystemName] = p.ID
	}
	c.populated = true
}

func (c *nameCache) lookup(name string) *int {
	id, ok := c.ids[name]
	if !ok {
		return nil
	}
	return utils.IntPtr(id)
}

// ParamsRef is an asset params reference as written on an element: an explicit id or a system name.
type ParamsRef struct {
	ID   *string
	Name *string
}

// Resolver turns symbolic references into ids. It is owned by one run and caches every
// list it fetches for the rest of that run.
type Resolver struct {
	client     entryservice.Client
	runDefault *int
	logger     *zap.Logger

	ingestionProfiles nameCache
	accessControls    nameCache
	storageProfiles   nameCache
	// assetParams is keyed by ingestion profile id.
	assetParams map[int]*nameCache

	defaultProfile        *int
	defaultProfileFetched bool

	// entryAssets maps entry id to asset id to its params id.
	entryAssets map[string]map[string]*int
}

// NewResolver creates an empty resolver. runDefault is the job-level ingestion profile.
func NewResolver(client entryservice.Client, runDefault *int, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:      client,
		runDefault:  runDefault,
		logger:      logger,
		assetParams: make(map[int]*nameCache),
		entryAssets: make(map[string]map[string]*int),
	}
}

func explicitID(v *string) (*int, bool) {
	if v == nil {
		return nil, false
	}
	id, ok := utils.NumericID(*v)
	if !ok {
		return nil, false
	}
	return utils.IntPtr(id), true
}

func (r *Resolver) resolveName(ctx context.Context, cache *nameCache, namespace string, name string, list func(context.Context) ([]entryservice.Profile, error)) (*int, error) {
	if !cache.populated {
		profiles, err := list(ctx)
		if err != nil {
			return nil, remoteItemError(fmt.Errorf("failed to list %s: %w", namespace, err))
		}
		cache.fill(profiles)
		r.logger.Debug("Reference cache populated",
			zap.String("namespace", namespace),
			zap.Int("names", len(cache.ids)),
		)
	}
	return cache.lookup(name), nil
}

// IngestionProfileID resolves the item's ingestion profile: explicit id, then name,
// then the run default, then the partner default fetched once per run.
func (r *Resolver) IngestionProfileID(ctx context.Context, item *models.Item) (*int, error) {
	id, err := r.ingestionProfileFromItem(ctx, item)
	if err != nil || id != nil {
		return id, err
	}
	if r.runDefault != nil {
		return utils.IntPtr(*r.runDefault), nil
	}
	if !r.defaultProfileFetched {
		p, err := r.client.GetDefaultIngestionProfile(ctx)
		var apiErr *entryservice.APIError
		switch {
		case errors.As(err, &apiErr):
			r.logger.Warn("No default ingestion profile", zap.Error(err))
			p = nil
		case err != nil:
			return nil, fmt.Errorf("failed to get default ingestion profile: %w", err)
		}
		r.defaultProfileFetched = true
		if p != nil {
			r.defaultProfile = utils.IntPtr(p.ID)
		}
	}
	if r.defaultProfile == nil {
		return nil, nil
	}
	return utils.IntPtr(*r.defaultProfile), nil
}

func (r *Resolver) ingestionProfileFromItem(ctx context.Context, item *models.Item) (*int, error) {
	if id, ok := explicitID(item.IngestionProfileID); ok {
		return id, nil
	}
	if item.IngestionProfile == nil || *item.IngestionProfile == "" {
		return nil, nil
	}
	return r.resolveName(ctx, &r.ingestionProfiles, "ingestion profiles", *item.IngestionProfile, r.client.ListIngestionProfiles)
}

// AccessControlID resolves the item's access control profile.
func (r *Resolver) AccessControlID(ctx context.Context, item *models.Item) (*int, error) {
	if id, ok := explicitID(item.AccessControlID); ok {
		return id, nil
	}
	if item.AccessControl == nil || *item.AccessControl == "" {
		return nil, nil
	}
	return r.resolveName(ctx, &r.accessControls, "access control profiles", *item.AccessControl, r.client.ListAccessControlProfiles)
}

// StorageProfileID resolves the storage profile of a remote storage resource.
func (r *Resolver) StorageProfileID(ctx context.Context, res *models.RemoteStorageContentResource) (*int, error) {
	if id, ok := explicitID(res.StorageProfileID); ok {
		return id, nil
	}
	if res.StorageProfile == nil || *res.StorageProfile == "" {
		return nil, nil
	}
	return r.resolveName(ctx, &r.storageProfiles, "storage profiles", *res.StorageProfile, r.client.ListStorageProfiles)
}

// AssetParamsID resolves an asset params reference within the ingestion profile.
// The same name may resolve differently under different profiles.
func (r *Resolver) AssetParamsID(ctx context.Context, ref ParamsRef, ingestionProfileID *int) (*int, error) {
	if id, ok := explicitID(ref.ID); ok {
		return id, nil
	}
	if ref.Name == nil || *ref.Name == "" || ingestionProfileID == nil {
		return nil, nil
	}

	profileID := *ingestionProfileID
	cache, ok := r.assetParams[profileID]
	if !ok {
		cache = &nameCache{}
		r.assetParams[profileID] = cache
	}
	list := func(ctx context.Context) ([]entryservice.Profile, error) {
		return r.client.ListAssetParams(ctx, profileID)
	}
	return r.resolveName(ctx, cache, fmt.Sprintf("asset params of ingestion profile %d", profileID), *ref.Name, list)
}

// AssetParamsOfAsset returns the params id already assigned to an asset of the entry.
// The entry's flavors and thumbnails are listed once per run.
func (r *Resolver) AssetParamsOfAsset(ctx context.Context, entryID, assetID string) (*int, error) {
	assets, ok := r.entryAssets[entryID]
	if !ok {
		flavors, err := r.client.ListFlavorAssets(ctx, entryID)
		if err != nil {
			return nil, remoteItemError(fmt.Errorf("failed to list flavors of entry %s: %w", entryID, err))
		}
		thumbs, err := r.client.ListThumbAssets(ctx, entryID)
		if err != nil {
			return nil, remoteItemError(fmt.Errorf("failed to list thumbnails of entry %s: %w", entryID, err))
		}

		assets = make(map[string]*int, len(flavors)+len(thumbs))
		for _, a := range append(flavors, thumbs...) {
			if a.ID == "" {
				continue
			}
			assets[a.ID] = a.ParamsID
		}
		r.entryAssets[entryID] = assets
	}

	paramsID, ok := assets[assetID]
	if !ok {
		return nil, newItemError(KindAssetNotFound, "Asset Id [%s] not found on entry [%s]", assetID, entryID)
	}
	return paramsID, nil
}
