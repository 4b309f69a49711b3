package port

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrCanceled     = errors.New("canceled")
	ErrNotSupported = errors.New("not supported")
	// ErrNotADocument is returned when the source bytes are not a document at all.
	ErrNotADocument = errors.New("not a document")
	// ErrEncrypted is returned when the document must be unlocked before use.
	ErrEncrypted  = errors.New("document is encrypted")
	ErrNoDocument = errors.New("no document loaded")
	// ErrBusy is returned when a split execution is already in flight.
	ErrBusy = errors.New("a split is already running")
	// ErrStale is returned when the session changed while a split was running.
	ErrStale     = errors.New("split result is stale")
	ErrNoOutputs = errors.New("no pending outputs")
)
