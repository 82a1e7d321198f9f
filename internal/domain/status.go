package domain

import "strings"

// Status is the lifecycle state of a contact request.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusArchived   Status = "ARCHIVED"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusArchived}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus maps a case-insensitive value to a Status. The second return
// value is false for anything outside the enum.
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// Action names a lifecycle operation that may move a request between states.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdateStatus Action = "update_status"
	ActionArchive      Action = "archive"
	ActionDelete       Action = "delete"
)

// CanTransition is the single legal-transition table for contact requests.
//
//   - create:        only into PENDING, from nothing.
//   - update_status: any valid target; ARCHIVED only from a non-archived
//     status. Leaving ARCHIVED this way is the restore path.
//   - archive:       any non-archived status into ARCHIVED.
//   - delete:        only from ARCHIVED; `to` is ignored.
//
// Moves among PENDING, IN_PROGRESS and COMPLETED are deliberately unordered.
func CanTransition(from, to Status, action Action) bool {
	switch action {
	case ActionCreate:
		return from == "" && to == StatusPending
	case ActionUpdateStatus:
		if !from.Valid() || !to.Valid() {
			return false
		}
		if to == StatusArchived {
			return from != StatusArchived
		}
		return true
	case ActionArchive:
		return from.Valid() && from != StatusArchived && to == StatusArchived
	case ActionDelete:
		return from == StatusArchived
	}
	return false
}
