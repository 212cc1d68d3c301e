package core

import "errors"

// Common errors.
var (
	// ErrMissingConfig marks a missing required setting. It is the only
	// error class that aborts a run before any fetch.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrStoreUnreadable marks a task document that stayed unreadable
	// beyond the retry budget. It aborts only the merge or rollover
	// operation that hit it.
	ErrStoreUnreadable = errors.New("task document is not readable")

	// ErrEnrichUnavailable marks an enrichment tool that is not installed
	// or not runnable. Entries degrade to their link-less form.
	ErrEnrichUnavailable = errors.New("enrichment tool unavailable")

	// ErrEnrichSkipped marks an item the enrichment tool declined under
	// its size policy.
	ErrEnrichSkipped = errors.New("enrichment skipped by size policy")

	// ErrLocked marks a run that found a live advisory lock owned by
	// another process.
	ErrLocked = errors.New("another run holds the lock")
)
