package domain

// ActionStatus is the terminal outcome of a mutation.
type ActionStatus string

const (
	ActionSuccess         ActionStatus = "SUCCESS"
	ActionValidationError ActionStatus = "VALIDATION_ERROR"
	ActionUnauthorized    ActionStatus = "UNAUTHORIZED"
	ActionNotFound        ActionStatus = "NOT_FOUND"
	ActionError           ActionStatus = "ERROR"
)

// Result is the envelope returned by every mutation, success or not.
// ValidationErrors is only set for ActionValidationError and maps a field
// path (e.g. "attachments[1].url") to its messages. Err keeps the underlying
// cause for transports and logs; it is never serialized.
type Result[T any] struct {
	Status           ActionStatus        `json:"status"`
	Message          string              `json:"message"`
	Data             *T                  `json:"data,omitempty"`
	ValidationErrors map[string][]string `json:"validation_errors,omitempty"`
	Err              error               `json:"-"`
}

// OK reports whether the mutation succeeded.
func (r Result[T]) OK() bool { return r.Status == ActionSuccess }

// BulkOutcome is the aggregate payload of a bulk mutation: the records as
// they stand after the batch (or, for deletion, as they stood before).
type BulkOutcome struct {
	Count int              `json:"count"`
	Items []ContactRequest `json:"items"`
}
