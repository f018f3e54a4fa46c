package engine

import (
	"context"
	"strings"
	"time"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/core/utils"
	"bulk-ingest/feature/bulkupload/models"

	"go.uber.org/zap"
)

// DateLayout is the schedule date format of the feed.
const DateLayout = "2006-01-02T15:04:05"

// DefaultThumbTag marks the thumbnail that becomes the entry's default.
const DefaultThumbTag = "default_thumb"

// assetDescriptor is a flavor or thumbnail to attach to the entry, with its resolved params.
type assetDescriptor struct {
	kind     entryservice.AssetKind
	paramsID *int
	tags     string
	resource entryservice.Resource
}

func (d *assetDescriptor) flavor() *entryservice.FlavorAsset {
	return &entryservice.FlavorAsset{FlavorParamsID: d.paramsID, Tags: d.tags}
}

func (d *assetDescriptor) thumb() *entryservice.ThumbAsset {
	return &entryservice.ThumbAsset{ThumbParamsID: d.paramsID, Tags: d.tags}
}

// typedElements pairs each type-specific element with the entry type it belongs to.
func typedElements(item *models.Item) []struct {
	present bool
	typ     entryservice.EntryType
} {
	return []struct {
		present bool
		typ     entryservice.EntryType
	}{
		{item.Media != nil, entryservice.EntryTypeMediaClip},
		{item.Mix != nil, entryservice.EntryTypeMix},
		{item.Data != nil, entryservice.EntryTypeData},
		{item.Document != nil, entryservice.EntryTypeDocument},
		{item.LiveStream != nil, entryservice.EntryTypeLiveStream},
		{item.Playlist != nil, entryservice.EntryTypePlaylist},
	}
}

// validateTypedElements rejects a type-specific element that does not match the declared type.
func validateTypedElements(item *models.Item) error {
	code, ok := item.TypeCode()
	for _, el := range typedElements(item) {
		if !el.present {
			continue
		}
		if !ok || entryservice.EntryType(code) != el.typ {
			return newItemError(KindConflictedTypedElement,
				"Conflicted typed element for type [%s] on item [%s]", item.TypeText(), item.Name)
		}
	}
	return nil
}

// parseDate parses a schedule date. ok is false when the value is absent or malformed.
func parseDate(v *string) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// buildEntry converts the item into the entry sent on the primary call.
func (r *run) buildEntry(ctx context.Context, item *models.Item) (*entryservice.Entry, error) {
	accessControlID, err := r.resolver.AccessControlID(ctx, item)
	if err != nil {
		return nil, err
	}
	ingestionProfileID, err := r.resolver.IngestionProfileID(ctx, item)
	if err != nil {
		return nil, err
	}

	entry := &entryservice.Entry{
		Name:               item.Name,
		Description:        item.Description,
		Tags:               utils.AppendCSV("", item.Tags...),
		Categories:         utils.AppendCSV("", item.Categories...),
		UserID:             item.UserID,
		LicenseType:        item.LicenseType,
		AccessControlID:    accessControlID,
		IngestionProfileID: ingestionProfileID,
		Status:             entryservice.EntryStatusImport,
	}

	start, ok := parseDate(item.StartDate)
	if !ok {
		start = r.now().UTC()
	}
	entry.StartDate = &start
	if end, ok := parseDate(item.EndDate); ok {
		entry.EndDate = &end
	}

	// The declared code is sent as is; unknown codes still get a generic variant.
	entry.Details = r.buildDetails(item)
	entry.Type = entryservice.DetailsType(entry.Details)
	if code, ok := item.TypeCode(); ok {
		entry.Type = entryservice.EntryType(code)
	}
	return entry, nil
}

// buildDetails selects the entry variant from the declared type. Unknown types yield a generic entry.
func (r *run) buildDetails(item *models.Item) entryservice.Details {
	code, ok := item.TypeCode()
	if !ok {
		return nil
	}

	switch entryservice.EntryType(code) {
	case entryservice.EntryTypeMediaClip:
		d := entryservice.MediaDetails{}
		if item.Media != nil {
			d.MediaType = entryservice.MediaType(utils.ToInt(item.Media.MediaType))
			r.checkMediaType(item, d.MediaType)
		}
		return d
	case entryservice.EntryTypeMix:
		d := entryservice.MixDetails{}
		if item.Mix != nil {
			d.EditorType = utils.ToInt(item.Mix.EditorType)
			d.DataContent = item.Mix.DataContent.String()
		}
		return d
	case entryservice.EntryTypeData:
		d := entryservice.DataDetails{}
		if item.Data != nil {
			d.DataContent = item.Data.DataContent.String()
			d.RetrieveDataContentByGet = utils.ToBool(item.Data.RetrieveDataContentByGet)
		}
		return d
	case entryservice.EntryTypeDocument:
		d := entryservice.DocumentDetails{}
		if item.Document != nil {
			d.DocumentType = utils.ToInt(item.Document.DocumentType)
		}
		return d
	case entryservice.EntryTypeLiveStream:
		d := entryservice.LiveStreamDetails{}
		if item.LiveStream != nil {
			d.Bitrate = utils.ToInt(item.LiveStream.Bitrates)
		}
		return d
	case entryservice.EntryTypePlaylist:
		d := entryservice.PlaylistDetails{}
		if item.Playlist != nil {
			d.PlaylistType = utils.ToInt(item.Playlist.PlaylistType)
			d.PlaylistContent = item.Playlist.PlaylistContent.String()
		}
		return d
	}
	return nil
}

// checkMediaType flags live-stream media types on media clips. It does not reject the item.
func (r *run) checkMediaType(item *models.Item, mediaType entryservice.MediaType) {
	if mediaType.IsLiveStream() {
		r.logger.Debug("Live stream media type on media entry",
			zap.String("item", item.Name),
			zap.Int("media_type", int(mediaType)),
		)
	}
}

// buildAssets converts the content and thumbnail elements of the item. In update mode
// entryID is set, elements without attributes or resource are skipped and explicit
// asset ids are resolved against the entry's existing assets.
func (r *run) buildAssets(ctx context.Context, item *models.Item, entryID string, ingestionProfileID *int) ([]*assetDescriptor, error) {
	update := entryID != ""
	descriptors := make([]*assetDescriptor, 0, len(item.Contents)+len(item.Thumbnails))

	for i := range item.Contents {
		content := &item.Contents[i]
		if update && content.Empty() {
			continue
		}
		d, err := r.buildAsset(ctx, entryID, ingestionProfileID, &content.Resources, assetSource{
			kind:    entryservice.AssetKindFlavor,
			params:  ParamsRef{ID: content.FlavorParamsID, Name: content.FlavorParams},
			assetID: content.AssetID,
			tags:    utils.AppendCSV("", content.Tags...),
		})
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	for i := range item.Thumbnails {
		thumb := &item.Thumbnails[i]
		if update && thumb.Empty() {
			continue
		}
		base := ""
		if strings.EqualFold(strings.TrimSpace(thumb.IsDefault), "true") {
			base = DefaultThumbTag
		}
		d, err := r.buildAsset(ctx, entryID, ingestionProfileID, &thumb.Resources, assetSource{
			kind:    entryservice.AssetKindThumb,
			params:  ParamsRef{ID: thumb.ThumbParamsID, Name: thumb.ThumbParams},
			assetID: thumb.AssetID,
			tags:    utils.AppendCSV(base, thumb.Tags...),
		})
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

type assetSource struct {
	kind    entryservice.AssetKind
	params  ParamsRef
	assetID string
	tags    string
}

func (r *run) buildAsset(ctx context.Context, entryID string, ingestionProfileID *int, res *models.Resources, src assetSource) (*assetDescriptor, error) {
	d := &assetDescriptor{kind: src.kind, tags: src.tags}

	var err error
	if entryID != "" && strings.TrimSpace(src.assetID) != "" {
		d.paramsID, err = r.resolver.AssetParamsOfAsset(ctx, entryID, strings.TrimSpace(src.assetID))
	} else {
		d.paramsID, err = r.resolver.AssetParamsID(ctx, src.params, ingestionProfileID)
	}
	if err != nil {
		return nil, err
	}

	d.resource, err = r.buildResource(ctx, res, ingestionProfileID)
	if err != nil {
		return nil, err
	}
	if d.resource == nil && entryID == "" {
		return nil, newItemError(KindMissingResource, "Missing resource on %s element", src.kind)
	}
	return d, nil
}
