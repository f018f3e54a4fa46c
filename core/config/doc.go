// Package config provides configuration management for bulk-ingest.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: job ledger connection details (mysql or sqlite)
//   - Storage: S3/MinIO credentials and the bucket holding feed documents
//   - Log: Logging level and format
//   - Remote: entry-management service endpoint, credentials, retries and rate limit
//   - Ingest: schema location, per-run cap, default ingestion profile, scheduler period
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Ingest.MaxRecordsPerRun)
package config
