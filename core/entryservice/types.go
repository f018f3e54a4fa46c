package entryservice

import "time"

// EntryType is the remote entry type code.
type EntryType int

const (
	EntryTypeAutomatic  EntryType = -1
	EntryTypeMediaClip  EntryType = 1
	EntryTypeMix        EntryType = 2
	EntryTypePlaylist   EntryType = 5
	EntryTypeData       EntryType = 6
	EntryTypeLiveStream EntryType = 7
	EntryTypeDocument   EntryType = 10
)

// MediaType is the media entry kind.
type MediaType int

const (
	MediaTypeVideo                  MediaType = 1
	MediaTypeImage                  MediaType = 2
	MediaTypeAudio                  MediaType = 5
	MediaTypeLiveStreamFlash        MediaType = 201
	MediaTypeLiveStreamWindowsMedia MediaType = 202
	MediaTypeLiveStreamRealMedia    MediaType = 203
	MediaTypeLiveStreamQuicktime    MediaType = 204
)

// IsLiveStream reports whether the media type is reserved for live-stream entries.
func (m MediaType) IsLiveStream() bool {
	switch m {
	case MediaTypeLiveStreamFlash, MediaTypeLiveStreamWindowsMedia,
		MediaTypeLiveStreamRealMedia, MediaTypeLiveStreamQuicktime:
		return true
	}
	return false
}

// EntryStatus is the import status of an entry or of an upload result.
type EntryStatus int

const (
	EntryStatusErrorImporting EntryStatus = -2
	EntryStatusImport         EntryStatus = 0
	EntryStatusReady          EntryStatus = 2
)

func (s EntryStatus) String() string {
	switch s {
	case EntryStatusErrorImporting:
		return "error_importing"
	case EntryStatusImport:
		return "import"
	case EntryStatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Entry is the remote catalog object created, updated or deleted by a feed item.
type Entry struct {
	ID                 string
	Name               string
	Description        string
	Tags               string
	Categories         string
	UserID             string
	LicenseType        string
	AccessControlID    *int
	IngestionProfileID *int
	StartDate          *time.Time
	EndDate            *time.Time
	Type               EntryType
	Status             EntryStatus
	// Details carries the type specific fields. Nil for generic entries.
	Details Details
}

// Details is the closed set of type specific entry fields.
type Details interface {
	entryType() EntryType
}

// MediaDetails holds media clip fields.
type MediaDetails struct {
	MediaType MediaType
}

// MixDetails holds mix fields.
type MixDetails struct {
	EditorType  int
	DataContent string
}

// DataDetails holds data entry fields.
type DataDetails struct {
	DataContent              string
	RetrieveDataContentByGet bool
}

// DocumentDetails holds document fields.
type DocumentDetails struct {
	DocumentType int
}

// LiveStreamDetails holds live stream fields.
type LiveStreamDetails struct {
	Bitrate int
}

// PlaylistDetails holds playlist fields.
type PlaylistDetails struct {
	PlaylistType    int
	PlaylistContent string
}

func (MediaDetails) entryType() EntryType      { return EntryTypeMediaClip }
func (MixDetails) entryType() EntryType        { return EntryTypeMix }
func (DataDetails) entryType() EntryType       { return EntryTypeData }
func (DocumentDetails) entryType() EntryType   { return EntryTypeDocument }
func (LiveStreamDetails) entryType() EntryType { return EntryTypeLiveStream }
func (PlaylistDetails) entryType() EntryType   { return EntryTypePlaylist }

// DetailsType returns the entry type implied by d, or EntryTypeAutomatic for nil.
func DetailsType(d Details) EntryType {
	if d == nil {
		return EntryTypeAutomatic
	}
	return d.entryType()
}

// AssetKind separates flavor (rendition) assets from thumbnail assets.
type AssetKind string

const (
	AssetKindFlavor AssetKind = "flavor"
	AssetKindThumb  AssetKind = "thumb"
)

// FlavorAsset describes a flavor to create or update.
type FlavorAsset struct {
	FlavorParamsID *int
	Tags           string
}

// ThumbAsset describes a thumbnail to create or update.
type ThumbAsset struct {
	ThumbParamsID *int
	Tags          string
}

// Asset is an asset attached to a remote entry.
type Asset struct {
	ID       string
	EntryID  string
	Kind     AssetKind
	ParamsID *int
	Tags     string
}

// Profile is any named remote object used for name to id resolution:
// ingestion profiles, asset params, access control and storage profiles.
type Profile struct {
	ID         int
	SystemName string
}
