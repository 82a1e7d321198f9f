// Package services defines the business logic for contact requests: public
// creation, admin status mutations (single and bulk) and admin reads.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into outcome envelopes happens in one place (outcome.go);
// translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrUnauthorized is returned when an admin-only operation is invoked by
	// a caller that is not an administrator.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRequestNotFound indicates that a targeted contact request does not
	// exist.
	ErrRequestNotFound = errors.New("contact request not found")

	// ErrAlreadyArchived is returned when archiving a request that is already
	// archived.
	ErrAlreadyArchived = errors.New("contact request already archived")

	// ErrNotArchived is returned when deleting a request that is not archived.
	ErrNotArchived = errors.New("contact request must be archived before deletion")

	// ErrIllegalTransition is returned for any other status change the state
	// machine rejects.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrStaleState indicates that a request changed between the check and
	// the write; nothing was applied.
	ErrStaleState = errors.New("contact request changed concurrently")

	// ErrNotificationFailed is returned alongside a persisted request when
	// the outbound notification could not be sent.
	ErrNotificationFailed = errors.New("notification failed")
)

// IsConflict reports whether err is a state-machine or concurrency rejection
// rather than a storage failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyArchived) ||
		errors.Is(err, ErrNotArchived) ||
		errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrStaleState)
}
