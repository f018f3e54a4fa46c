package engine

import (
	"fmt"

	"bulk-ingest/core/entryservice"

	"github.com/cockroachdb/errors"
)

// Fatal errors abort the whole run.
var (
	// ErrSchemaValidation means the document failed structural validation. No item was processed.
	ErrSchemaValidation = errors.New("schema validation failed")
	// ErrUnsupportedAction means an item asked for an action other than add, update or delete.
	ErrUnsupportedAction = errors.New("unsupported bulk action")
	// ErrAborted means the job was cancelled between items.
	ErrAborted = errors.New("bulk upload aborted")
)

// ErrItemValidation marks the per-item error family. These are turned into error
// results and never stop the run.
var ErrItemValidation = errors.New("item validation failed")

// ItemErrorKind classifies a per-item failure.
type ItemErrorKind string

const (
	KindMissingMandatoryParameter ItemErrorKind = "missing_mandatory_parameter"
	KindConflictedTypedElement    ItemErrorKind = "conflicted_typed_element"
	KindAssetNotFound             ItemErrorKind = "asset_not_found"
	KindChecksumMismatch          ItemErrorKind = "checksum_mismatch"
	KindSizeMismatch              ItemErrorKind = "size_mismatch"
	KindEntryNotCreated           ItemErrorKind = "entry_not_created"
	KindMissingResource           ItemErrorKind = "missing_resource"
	KindInvalidResource           ItemErrorKind = "invalid_resource"
	KindRemoteCall                ItemErrorKind = "remote_call_failed"
)

// ItemError is a per-item failure. Its message is reported verbatim in the result.
type ItemError struct {
	Kind    ItemErrorKind
	Message string
}

func (e *ItemError) Error() string {
	return e.Message
}

func newItemError(kind ItemErrorKind, format string, args ...any) error {
	return errors.Mark(&ItemError{Kind: kind, Message: fmt.Sprintf(format, args...)}, ErrItemValidation)
}

// IsItemError reports whether err belongs to the per-item family.
func IsItemError(err error) bool {
	return errors.Is(err, ErrItemValidation)
}

// ItemErrorKindOf returns the kind of a per-item error, or "" for other errors.
func ItemErrorKindOf(err error) ItemErrorKind {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// remoteItemError turns an exception raised by the remote service into a per-item error.
// Transport failures are returned unchanged and stop the run.
func remoteItemError(err error) error {
	var apiErr *entryservice.APIError
	if errors.As(err, &apiErr) {
		return newItemError(KindRemoteCall, "%s", apiErr.Error())
	}
	return err
}
