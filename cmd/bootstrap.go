package cmd

import (
	"bulk-ingest/core/config"
	"bulk-ingest/core/entryservice"
	"bulk-ingest/core/entryservice/memory"
	"bulk-ingest/core/schema"
	"bulk-ingest/core/storage"
	"bulk-ingest/core/utils"
	"bulk-ingest/feature/bulkupload/jobs"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

func loadSchema(cfg *config.Config) (*schema.Schema, error) {
	if cfg.Ingest.SchemaPath == "" {
		return schema.Default()
	}
	return schema.Load(cfg.Ingest.SchemaPath)
}

// remoteClient returns the HTTP client, or an in-process service in sandbox mode.
func remoteClient(cfg *config.Config, logg *zap.Logger, sandbox bool) (entryservice.Client, error) {
	if sandbox {
		logg.Warn("Sandbox mode, entries are kept in memory only")
		return memory.New(), nil
	}
	return entryservice.NewClient(cfg.Remote, logg)
}

// newSource creates a storage client only when the location needs one.
func newSource(cfg *config.Config, location string) (*jobs.Source, error) {
	if _, _, ok := storage.ParseURI(location); !ok {
		return jobs.NewSource(nil, cfg.Storage.Bucket), nil
	}
	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage client")
	}
	return jobs.NewSource(store, cfg.Storage.Bucket), nil
}

func defaultIngestionProfile(cfg *config.Config) *int {
	if cfg.Ingest.DefaultIngestionProfileID <= 0 {
		return nil
	}
	return utils.IntPtr(cfg.Ingest.DefaultIngestionProfileID)
}
