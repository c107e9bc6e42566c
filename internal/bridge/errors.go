package bridge

import "errors"

// Standard errors returned by the bridge.
var (
	// ErrInvalidRange indicates malformed codec input (negative line or
	// column). Rejected before anything is sent to the worker.
	ErrInvalidRange = errors.New("invalid range")

	// ErrStaleResponse indicates a worker response that no longer matches
	// the request it would answer. Discarded silently.
	ErrStaleResponse = errors.New("stale response")

	// ErrNoDocument indicates the path is not registered with the editor.
	ErrNoDocument = errors.New("document not open")
)
