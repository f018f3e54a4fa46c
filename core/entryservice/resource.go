package entryservice

// Resource is the closed set of content locations an asset can be ingested from.
type Resource interface {
	resourceKind() string
}

// LocalFileResource points to a file readable by the ingesting host.
type LocalFileResource struct {
	Path string
}

// URLResource points to a remotely downloadable file.
type URLResource struct {
	URL string
}

// RemoteStorageResource points to a file already kept on a known storage profile.
type RemoteStorageResource struct {
	URL              string
	StorageProfileID *int
}

// EntryResource copies content from another entry, optionally from one flavor.
type EntryResource struct {
	EntryID        string
	FlavorParamsID *int
}

// AssetResource copies content from an existing asset.
type AssetResource struct {
	AssetID string
}

func (LocalFileResource) resourceKind() string     { return "localFile" }
func (URLResource) resourceKind() string           { return "url" }
func (RemoteStorageResource) resourceKind() string { return "remoteStorage" }
func (EntryResource) resourceKind() string         { return "entry" }
func (AssetResource) resourceKind() string         { return "asset" }

// ResourceKind names the variant held by r.
func ResourceKind(r Resource) string {
	if r == nil {
		return ""
	}
	return r.resourceKind()
}

// AssetParamsResource binds one resource to the asset params it produces.
type AssetParamsResource struct {
	AssetParamsID int
	Resource      Resource
}

// ResourceContainer groups every resource ingested inline with an entry call.
type ResourceContainer struct {
	Resources []AssetParamsResource
}

// OrNil returns nil when the container holds nothing.
// The remote service treats an empty container differently from no container.
func (c *ResourceContainer) OrNil() *ResourceContainer {
	if c == nil || len(c.Resources) == 0 {
		return nil
	}
	return c
}
