package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for delivery and routing failures.
var (
	// ErrInboxFull is returned when a coordinator's bounded inbox cannot
	// accept another message. Senders surface this rather than blocking.
	ErrInboxFull = errors.New("session inbox is full")

	// ErrSessionClosed is returned when a message targets a coordinator that
	// has already reached its terminal state and exited.
	ErrSessionClosed = errors.New("session has already finished")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("requested resource not found")
)
