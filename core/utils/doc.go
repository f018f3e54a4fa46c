// Package utils provides common utility functions for bulk-ingest.
// It includes helpers for loose type conversion of decoded remote payloads,
// numeric id parsing of feed values and comma-separated list building.
package utils
