package pipeline

import "errors"

var (
	// ErrAuthFailure is returned when an operation requires a session and
	// none is active, or when credential exchange is rejected.
	ErrAuthFailure = errors.New("pipeline: authentication failure")

	// ErrUploadRejected is returned when the upload capability refuses a
	// submission. No local state is changed.
	ErrUploadRejected = errors.New("pipeline: upload rejected")

	// ErrFetchFailure is returned when a reconciliation fetch fails. The
	// previous projections are kept as last-known-good.
	ErrFetchFailure = errors.New("pipeline: state fetch failed")

	// ErrStaleResponse is returned when a reconciliation completes after
	// the session it was initiated under is gone. The response is dropped.
	ErrStaleResponse = errors.New("pipeline: stale response discarded")
)
