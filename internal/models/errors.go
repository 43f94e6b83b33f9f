package models

import "errors"

// Domain-level sentinel errors. Handlers map these to HTTP statuses; services
// wrap them with context but keep them matchable via errors.Is.
var (
	// ErrAlreadyActive means the citizen already has a report inside an
	// active incident and must wait for it to be resolved.
	ErrAlreadyActive = errors.New("citizen already has an active report")

	// ErrInvalidTransition means an operator attempted to move an incident
	// backward along the lifecycle chain. No write is attempted.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidGeometry means a risk-zone polygon failed to parse. The
	// request is rejected before any write.
	ErrInvalidGeometry = errors.New("invalid zone geometry")

	// ErrStoreUnavailable marks transient backend failures. The caller may
	// retry; local projection state must not be corrupted on failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
