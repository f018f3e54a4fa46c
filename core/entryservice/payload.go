package entryservice

import (
	"fmt"
	"strings"
	"time"

	"bulk-ingest/core/utils"
)

// Remote object type names.
const (
	objectTypeBaseEntry       = "BaseEntry"
	objectTypeMediaEntry      = "MediaEntry"
	objectTypeMixEntry        = "MixEntry"
	objectTypeDataEntry       = "DataEntry"
	objectTypeDocumentEntry   = "DocumentEntry"
	objectTypeLiveStreamEntry = "LiveStreamEntry"
	objectTypePlaylist        = "Playlist"
	objectTypeFlavorAsset     = "FlavorAsset"
	objectTypeThumbAsset      = "ThumbAsset"
	objectTypeAPIException    = "APIException"
)

func entryObjectType(d Details) string {
	switch d.(type) {
	case MediaDetails:
		return objectTypeMediaEntry
	case MixDetails:
		return objectTypeMixEntry
	case DataDetails:
		return objectTypeDataEntry
	case DocumentDetails:
		return objectTypeDocumentEntry
	case LiveStreamDetails:
		return objectTypeLiveStreamEntry
	case PlaylistDetails:
		return objectTypePlaylist
	default:
		return objectTypeBaseEntry
	}
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func putInt(m map[string]any, key string, value *int) {
	if value != nil {
		m[key] = *value
	}
}

func putTime(m map[string]any, key string, value *time.Time) {
	if value != nil {
		m[key] = value.Unix()
	}
}

func encodeEntry(e *Entry) map[string]any {
	m := map[string]any{
		"objectType": entryObjectType(e.Details),
		"type":       int(e.Type),
	}
	putString(m, "name", e.Name)
	putString(m, "description", e.Description)
	putString(m, "tags", e.Tags)
	putString(m, "categories", e.Categories)
	putString(m, "userId", e.UserID)
	putString(m, "licenseType", e.LicenseType)
	putInt(m, "accessControlId", e.AccessControlID)
	putInt(m, "conversionProfileId", e.IngestionProfileID)
	putTime(m, "startDate", e.StartDate)
	putTime(m, "endDate", e.EndDate)

	switch d := e.Details.(type) {
	case MediaDetails:
		m["mediaType"] = int(d.MediaType)
	case MixDetails:
		m["editorType"] = d.EditorType
		putString(m, "dataContent", d.DataContent)
	case DataDetails:
		putString(m, "dataContent", d.DataContent)
		m["retrieveDataContentByGet"] = d.RetrieveDataContentByGet
	case DocumentDetails:
		m["documentType"] = d.DocumentType
	case LiveStreamDetails:
		m["bitrate"] = d.Bitrate
	case PlaylistDetails:
		m["playlistType"] = d.PlaylistType
		putString(m, "playlistContent", d.PlaylistContent)
	}
	return m
}

func encodeResource(r Resource) map[string]any {
	switch v := r.(type) {
	case LocalFileResource:
		return map[string]any{"objectType": "LocalFileResource", "localFilePath": v.Path}
	case URLResource:
		return map[string]any{"objectType": "UrlResource", "url": v.URL}
	case RemoteStorageResource:
		m := map[string]any{"objectType": "RemoteStorageResource", "url": v.URL}
		putInt(m, "storageProfileId", v.StorageProfileID)
		return m
	case EntryResource:
		m := map[string]any{"objectType": "EntryResource", "entryId": v.EntryID}
		putInt(m, "flavorParamsId", v.FlavorParamsID)
		return m
	case AssetResource:
		return map[string]any{"objectType": "AssetResource", "assetId": v.AssetID}
	default:
		return nil
	}
}

func encodeContainer(c *ResourceContainer) map[string]any {
	resources := make([]map[string]any, 0, len(c.Resources))
	for _, r := range c.Resources {
		resources = append(resources, map[string]any{
			"objectType":    "AssetParamsResourceContainer",
			"assetParamsId": r.AssetParamsID,
			"resource":      encodeResource(r.Resource),
		})
	}
	return map[string]any{"objectType": "AssetsParamsResourceContainers", "resources": resources}
}

func encodeFlavor(a *FlavorAsset) map[string]any {
	m := map[string]any{"objectType": objectTypeFlavorAsset}
	putInt(m, "flavorParamsId", a.FlavorParamsID)
	putString(m, "tags", a.Tags)
	return m
}

func encodeThumb(a *ThumbAsset) map[string]any {
	m := map[string]any{"objectType": objectTypeThumbAsset}
	putInt(m, "thumbParamsId", a.ThumbParamsID)
	putString(m, "tags", a.Tags)
	return m
}

// encodeCall renders the call parameters. Deferred entry ids use their wire form.
func encodeCall(c Call) map[string]any {
	m := map[string]any{"service": c.Service, "action": c.Action}
	if c.EntryID != (EntryRef{}) {
		m["entryId"] = c.EntryID.String()
	}
	if c.AssetID != "" {
		m["id"] = c.AssetID
	}
	if c.Entry != nil {
		m["entry"] = encodeEntry(c.Entry)
		if c.Action == ActionAdd {
			m["type"] = int(c.Entry.Type)
		}
	}
	if c.Container != nil {
		m["resource"] = encodeContainer(c.Container)
	} else if c.Resource != nil {
		m["contentResource"] = encodeResource(c.Resource)
	}
	if c.Flavor != nil {
		m["flavorAsset"] = encodeFlavor(c.Flavor)
	}
	if c.Thumb != nil {
		m["thumbAsset"] = encodeThumb(c.Thumb)
	}
	return m
}

func optionalInt(v any) *int {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return utils.IntPtr(utils.ToInt(v))
}

func optionalTime(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(int64(utils.ToInt(v)), 0).UTC()
	return &t
}

// decodeError returns the API exception carried by v, if any.
func decodeError(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if utils.ToString(m["objectType"]) != objectTypeAPIException {
		return nil
	}
	return &APIError{Code: utils.ToString(m["code"]), Message: utils.ToString(m["message"])}
}

func decodeEntry(v any) (*Entry, error) {
	if err := decodeError(v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected entry payload %T", v)
	}
	e := &Entry{
		ID:                 utils.ToString(m["id"]),
		Name:               utils.ToString(m["name"]),
		Description:        utils.ToString(m["description"]),
		Tags:               utils.ToString(m["tags"]),
		Categories:         utils.ToString(m["categories"]),
		UserID:             utils.ToString(m["userId"]),
		LicenseType:        utils.ToString(m["licenseType"]),
		AccessControlID:    optionalInt(m["accessControlId"]),
		IngestionProfileID: optionalInt(m["conversionProfileId"]),
		StartDate:          optionalTime(m["startDate"]),
		EndDate:            optionalTime(m["endDate"]),
		Type:               EntryType(utils.ToInt(m["type"])),
		Status:             EntryStatus(utils.ToInt(m["status"])),
	}
	switch utils.ToString(m["objectType"]) {
	case objectTypeMediaEntry:
		e.Details = MediaDetails{MediaType: MediaType(utils.ToInt(m["mediaType"]))}
	case objectTypeMixEntry:
		e.Details = MixDetails{EditorType: utils.ToInt(m["editorType"]), DataContent: utils.ToString(m["dataContent"])}
	case objectTypeDataEntry:
		e.Details = DataDetails{DataContent: utils.ToString(m["dataContent"]), RetrieveDataContentByGet: utils.ToBool(m["retrieveDataContentByGet"])}
	case objectTypeDocumentEntry:
		e.Details = DocumentDetails{DocumentType: utils.ToInt(m["documentType"])}
	case objectTypeLiveStreamEntry:
		e.Details = LiveStreamDetails{Bitrate: utils.ToInt(m["bitrate"])}
	case objectTypePlaylist:
		e.Details = PlaylistDetails{PlaylistType: utils.ToInt(m["playlistType"]), PlaylistContent: utils.ToString(m["playlistContent"])}
	}
	return e, nil
}

func decodeAsset(v any) (*Asset, error) {
	if err := decodeError(v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected asset payload %T", v)
	}
	a := &Asset{
		ID:      utils.ToString(m["id"]),
		EntryID: utils.ToString(m["entryId"]),
		Tags:    utils.ToString(m["tags"]),
	}
	switch utils.ToString(m["objectType"]) {
	case objectTypeThumbAsset:
		a.Kind = AssetKindThumb
		a.ParamsID = optionalInt(m["thumbParamsId"])
	default:
		a.Kind = AssetKindFlavor
		a.ParamsID = optionalInt(m["flavorParamsId"])
	}
	return a, nil
}

// listObjects accepts both a bare array and a {"objects": [...]} list response.
func listObjects(v any) ([]any, error) {
	if err := decodeError(v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		objs, _ := t["objects"].([]any)
		return objs, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected list payload %T", v)
	}
}

func decodeAssets(v any) ([]Asset, error) {
	objs, err := listObjects(v)
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(objs))
	for _, o := range objs {
		a, err := decodeAsset(o)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, nil
}

func decodeProfiles(v any) ([]Profile, error) {
	objs, err := listObjects(v)
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(objs))
	for _, o := range objs {
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		profiles = append(profiles, Profile{ID: utils.ToInt(m["id"]), SystemName: utils.ToString(m["systemName"])})
	}
	return profiles, nil
}

// decodeResult maps one multi-call response element to a Result by the call shape.
func decodeResult(c Call, v any) Result {
	if err := decodeError(v); err != nil {
		return Result{Err: err}
	}
	switch {
	case c.Service == ServiceBaseEntry && c.Action == ActionDelete:
		return Result{}
	case c.Service == ServiceBaseEntry:
		e, err := decodeEntry(v)
		return Result{Entry: e, Err: err}
	case c.Action == ActionGetByEntryID:
		assets, err := decodeAssets(v)
		return Result{Assets: assets, Err: err}
	default:
		a, err := decodeAsset(v)
		return Result{Asset: a, Err: err}
	}
}
