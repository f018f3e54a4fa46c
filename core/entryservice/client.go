package entryservice

import (
	"context"
	"fmt"
)

// Client is the entry-management service boundary used by the ingestion engine.
type Client interface {
	// Do submits the transaction as one multi-call round trip.
	// Per-call failures are reported in Result.Err, transport failures as the error.
	Do(ctx context.Context, tx *Transaction) ([]Result, error)
	// ListIngestionProfiles lists every ingestion profile of the acting partner.
	ListIngestionProfiles(ctx context.Context) ([]Profile, error)
	// ListAssetParams lists the asset params bound to the ingestion profile.
	ListAssetParams(ctx context.Context, ingestionProfileID int) ([]Profile, error)
	// ListAccessControlProfiles lists every access control profile.
	ListAccessControlProfiles(ctx context.Context) ([]Profile, error)
	// ListStorageProfiles lists every remote storage profile.
	ListStorageProfiles(ctx context.Context) ([]Profile, error)
	// GetDefaultIngestionProfile returns the partner's default ingestion profile.
	GetDefaultIngestionProfile(ctx context.Context) (*Profile, error)
	// ListFlavorAssets lists the flavors attached to the entry.
	ListFlavorAssets(ctx context.Context, entryID string) ([]Asset, error)
	// ListThumbAssets lists the thumbnails attached to the entry.
	ListThumbAssets(ctx context.Context, entryID string) ([]Asset, error)
	// DeleteEntry deletes the entry.
	DeleteEntry(ctx context.Context, entryID string) error
	// Impersonate returns a client acting on behalf of the partner.
	Impersonate(partnerID int) Client
}

// APIError is an exception returned by the remote service for one call.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
