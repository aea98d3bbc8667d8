package ticket

import "errors"

var (
	// ErrSerialization means the payload could not be encoded. Nothing
	// was written to the cache.
	ErrSerialization = errors.New("ticket: cannot serialize payload")

	// ErrDeserialization means bytes were present at the key but could
	// not be decoded (corruption or a format-version mismatch). It is
	// deliberately distinct from the absent case so callers can treat
	// it as a data-integrity anomaly rather than a routine logout.
	ErrDeserialization = errors.New("ticket: cannot deserialize payload")

	// ErrBackendUnavailable means the cache client failed to complete
	// the operation. The store performs no retries; the caller decides
	// between retrying and failing closed.
	ErrBackendUnavailable = errors.New("ticket: cache backend unavailable")
)
