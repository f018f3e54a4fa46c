package engine

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strconv"
	"strings"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/feature/bulkupload/models"
)

// ChecksumSHA1 selects SHA-1 for local file checksums. Any other type means MD5.
const ChecksumSHA1 = "sha1"

// buildResource converts the resource child of a content or thumbnail element.
// It returns nil when the element has no resource.
func (r *run) buildResource(ctx context.Context, res *models.Resources, ingestionProfileID *int) (entryservice.Resource, error) {
	switch {
	case res.LocalFile != nil:
		if err := validateLocalFile(res.LocalFile); err != nil {
			return nil, err
		}
		return entryservice.LocalFileResource{Path: res.LocalFile.FilePath}, nil
	case res.URL != nil:
		return entryservice.URLResource{URL: res.URL.URL}, nil
	case res.RemoteStorage != nil:
		storageProfileID, err := r.resolver.StorageProfileID(ctx, res.RemoteStorage)
		if err != nil {
			return nil, err
		}
		return entryservice.RemoteStorageResource{URL: res.RemoteStorage.URL, StorageProfileID: storageProfileID}, nil
	case res.Entry != nil:
		ref := ParamsRef{ID: res.Entry.FlavorParamsID, Name: res.Entry.FlavorParams}
		flavorParamsID, err := r.resolver.AssetParamsID(ctx, ref, ingestionProfileID)
		if err != nil {
			return nil, err
		}
		return entryservice.EntryResource{EntryID: res.Entry.EntryID, FlavorParamsID: flavorParamsID}, nil
	case res.Asset != nil:
		return entryservice.AssetResource{AssetID: res.Asset.AssetID}, nil
	}
	return nil, nil
}

// validateLocalFile checks the declared checksum and size of a local file, when present.
func validateLocalFile(res *models.LocalFileContentResource) error {
	path := strings.TrimSpace(res.FilePath)
	if path == "" {
		return newItemError(KindInvalidResource, "Missing file path on local file resource")
	}

	if res.FileChecksum != nil && strings.TrimSpace(res.FileChecksum.Value) != "" {
		expected := strings.TrimSpace(res.FileChecksum.Value)
		actual, err := fileChecksum(path, res.FileChecksum.Type)
		if err != nil {
			return newItemError(KindInvalidResource, "Failed to read file [%s]: %v", path, err)
		}
		if !strings.EqualFold(expected, actual) {
			return newItemError(KindChecksumMismatch,
				"File checksum is invalid for file [%s], Xml checksum [%s], actual checksum [%s]",
				path, expected, actual)
		}
	}

	if res.FileSize != nil && strings.TrimSpace(*res.FileSize) != "" {
		expected, err := strconv.ParseInt(strings.TrimSpace(*res.FileSize), 10, 64)
		if err != nil {
			return newItemError(KindInvalidResource, "Invalid file size [%s] for file [%s]", *res.FileSize, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return newItemError(KindInvalidResource, "Failed to read file [%s]: %v", path, err)
		}
		if info.Size() != expected {
			return newItemError(KindSizeMismatch,
				"File size is invalid for file [%s], Xml size [%d], actual size [%d]",
				path, expected, info.Size())
		}
	}
	return nil
}

func fileChecksum(path, checksumType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var h hash.Hash
	if strings.EqualFold(strings.TrimSpace(checksumType), ChecksumSHA1) {
		h = sha1.New()
	} else {
		h = md5.New()
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
