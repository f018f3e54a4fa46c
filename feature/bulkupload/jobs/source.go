package jobs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"

	"bulk-ingest/core/storage"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
)

// Source reads feed documents from local paths or s3://bucket/key locations.
type Source struct {
	client storage.Client
	bucket string
}

// NewSource creates a source. client may be nil when only local paths are used.
func NewSource(client storage.Client, bucket string) *Source {
	return &Source{client: client, bucket: bucket}
}

// Load returns the document at location.
func (s *Source) Load(ctx context.Context, location string) ([]byte, error) {
	bucket, key, ok := storage.ParseURI(location)
	if !ok {
		doc, err := os.ReadFile(location)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read feed %s", location)
		}
		return doc, nil
	}

	if s.client == nil {
		return nil, errors.Newf("no storage configured for feed %s", location)
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get feed %s", location)
	}
	defer obj.Close()

	doc, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read feed %s", location)
	}
	return doc, nil
}

// Store uploads a document under feeds/<name>.xml and returns its location.
func (s *Source) Store(ctx context.Context, name string, doc []byte) (string, error) {
	if s.client == nil {
		return "", errors.New("no storage configured")
	}
	key := path.Join("feeds", name+".xml")
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/xml",
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to store feed %s", key)
	}
	return storage.URI(s.bucket, key), nil
}
