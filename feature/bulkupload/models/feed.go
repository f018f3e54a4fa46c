package models

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Item actions.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Feed is the ingestion document: mrss > channel > item.
type Feed struct {
	XMLName  xml.Name  `xml:"mrss"`
	Channels []Channel `xml:"channel"`
}

// Channel is an ordered group of items.
type Channel struct {
	Items []Item `xml:"item"`
}

// Item is one feed record.
// Pointer fields distinguish an absent element from an empty one.
type Item struct {
	Action             *string     `xml:"action"`
	EntryID            string      `xml:"entryId"`
	Type               *string     `xml:"type"`
	Name               string      `xml:"name"`
	Description        string      `xml:"description"`
	Tags               []string    `xml:"tags>tag"`
	Categories         []string    `xml:"categories>category"`
	UserID             string      `xml:"userId"`
	LicenseType        string      `xml:"licenseType"`
	AccessControlID    *string     `xml:"accessControlId"`
	AccessControl      *string     `xml:"accessControl"`
	StartDate          *string     `xml:"startDate"`
	EndDate            *string     `xml:"endDate"`
	IngestionProfileID *string     `xml:"ingestionProfileId"`
	IngestionProfile   *string     `xml:"ingestionProfile"`
	Contents           []Content   `xml:"content"`
	Thumbnails         []Thumbnail `xml:"thumbnail"`
	Media              *Media      `xml:"media"`
	Mix                *Mix        `xml:"mix"`
	Data               *Data       `xml:"data"`
	Document           *Document   `xml:"document"`
	LiveStream         *LiveStream `xml:"liveStream"`
	Playlist           *Playlist   `xml:"playlist"`
	Inner              string      `xml:",innerxml"`
}

// ActionName returns the lower-cased action, add when absent.
func (i *Item) ActionName() string {
	if i.Action == nil {
		return ActionAdd
	}
	return strings.ToLower(strings.TrimSpace(*i.Action))
}

// TypeCode returns the declared entry type code. ok is false when absent or not numeric.
func (i *Item) TypeCode() (code int, ok bool) {
	if i.Type == nil {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimSpace(*i.Type))
	if err != nil {
		return 0, false
	}
	return code, true
}

// TypeText returns the declared type as written in the document.
func (i *Item) TypeText() string {
	if i.Type == nil {
		return ""
	}
	return strings.TrimSpace(*i.Type)
}

// Raw returns the item's XML as it appeared in the document.
func (i *Item) Raw() string {
	return "<item>" + i.Inner + "</item>"
}

// Resources holds the resource child elements of a content or thumbnail.
// A valid document sets at most one of them.
type Resources struct {
	LocalFile     *LocalFileContentResource     `xml:"localFileContentResource"`
	URL           *URLContentResource           `xml:"urlContentResource"`
	RemoteStorage *RemoteStorageContentResource `xml:"remoteStorageContentResource"`
	Entry         *EntryContentResource         `xml:"entryContentResource"`
	Asset         *AssetContentResource         `xml:"assetContentResource"`
}

// Empty reports whether no resource element is present.
func (r *Resources) Empty() bool {
	return r.LocalFile == nil && r.URL == nil && r.RemoteStorage == nil && r.Entry == nil && r.Asset == nil
}

// Content is a flavor source of an item.
type Content struct {
	FlavorParamsID *string  `xml:"flavorParamsId,attr"`
	FlavorParams   *string  `xml:"flavorParams,attr"`
	AssetID        string   `xml:"assetId,attr"`
	Tags           []string `xml:"tags>tag"`
	Resources
}

// Empty reports whether the element carries neither attributes nor children.
func (c *Content) Empty() bool {
	return c.FlavorParamsID == nil && c.FlavorParams == nil && c.AssetID == "" && len(c.Tags) == 0 && c.Resources.Empty()
}

// Thumbnail is a thumbnail source of an item.
type Thumbnail struct {
	ThumbParamsID *string  `xml:"thumbParamsId,attr"`
	ThumbParams   *string  `xml:"thumbParams,attr"`
	AssetID       string   `xml:"assetId,attr"`
	IsDefault     string   `xml:"isDefault,attr"`
	Tags          []string `xml:"tags>tag"`
	Resources
}

// Empty reports whether the element carries neither attributes nor children.
func (t *Thumbnail) Empty() bool {
	return t.ThumbParamsID == nil && t.ThumbParams == nil && t.AssetID == "" && t.IsDefault == "" && len(t.Tags) == 0 && t.Resources.Empty()
}

// LocalFileContentResource is a file on the ingesting host.
type LocalFileContentResource struct {
	FilePath     string        `xml:"filePath,attr"`
	FileChecksum *FileChecksum `xml:"fileChecksum"`
	FileSize     *string       `xml:"fileSize"`
}

// FileChecksum is an expected file digest.
type FileChecksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// URLContentResource is a downloadable file.
type URLContentResource struct {
	URL string `xml:"url,attr"`
}

// RemoteStorageContentResource is a file kept on a storage profile.
type RemoteStorageContentResource struct {
	URL              string  `xml:"url,attr"`
	StorageProfileID *string `xml:"storageProfileId"`
	StorageProfile   *string `xml:"storageProfile"`
}

// EntryContentResource copies content from another entry.
type EntryContentResource struct {
	EntryID        string  `xml:"entryId,attr"`
	FlavorParamsID *string `xml:"flavorParamsId"`
	FlavorParams   *string `xml:"flavorParams"`
}

// AssetContentResource copies content from an existing asset.
type AssetContentResource struct {
	AssetID string `xml:"assetId,attr"`
}

// Media holds media clip fields.
type Media struct {
	MediaType string `xml:"mediaType"`
}

// Mix holds mix fields.
type Mix struct {
	EditorType  string `xml:"editorType"`
	DataContent Raw    `xml:"dataContent"`
}

// Data holds data entry fields.
type Data struct {
	DataContent              Raw    `xml:"dataContent"`
	RetrieveDataContentByGet string `xml:"retrieveDataContentByGet"`
}

// Document holds document fields.
type Document struct {
	DocumentType string `xml:"documentType"`
}

// LiveStream holds live stream fields.
type LiveStream struct {
	Bitrates string `xml:"bitrates"`
}

// Playlist holds playlist fields.
type Playlist struct {
	PlaylistType    string `xml:"playlistType"`
	PlaylistContent Raw    `xml:"playlistContent"`
}

// Raw keeps an element's content verbatim.
type Raw struct {
	Inner string `xml:",innerxml"`
}

// String returns the trimmed content.
func (r Raw) String() string {
	return strings.TrimSpace(r.Inner)
}

// ParseFeed decodes a feed document.
func ParseFeed(r io.Reader) (*Feed, error) {
	var feed Feed
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return &feed, nil
}

// ParseFeedBytes decodes a feed document held in memory.
func ParseFeedBytes(doc []byte) (*Feed, error) {
	return ParseFeed(bytes.NewReader(doc))
}
