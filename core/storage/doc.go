// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to keep and fetch feed documents. Jobs submitted over
// HTTP upload their document to the configured bucket and reference it as
// s3://bucket/key; the job runner reads it back on every invocation.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
//	bucket, key, ok := storage.ParseURI("s3://feeds/2024/catalog.xml")
package storage
