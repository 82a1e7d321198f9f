package services

import (
	"errors"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// User-facing outcome messages.
const (
	MsgInvalidInput       = "Please correct the highlighted fields"
	MsgUnauthorized       = "You are not allowed to perform this action"
	MsgNotFound           = "Contact request not found"
	MsgAlreadyArchived    = "This request is already archived"
	MsgNotArchived        = "Only archived requests can be deleted"
	MsgIllegalTransition  = "This status change is not allowed"
	MsgStaleState         = "The request was modified in the meantime, please retry"
	MsgNotificationFailed = "Your request was saved, but the notification could not be sent"
	MsgGeneric            = "Something went wrong, please try again"
)

// outcome maps err to the envelope for a mutation. data is attached on
// success and on a failed notification (the record exists either way).
func outcome[T any](err error, data *T, success string) domain.Result[T] {
	if err == nil {
		return domain.Result[T]{Status: domain.ActionSuccess, Message: success, Data: data}
	}

	res := domain.Result[T]{Status: domain.ActionError, Err: err}
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		res.Status = domain.ActionValidationError
		res.Message = MsgInvalidInput
		res.ValidationErrors = verr.Fields
	case errors.Is(err, ErrUnauthorized):
		res.Status = domain.ActionUnauthorized
		res.Message = MsgUnauthorized
	case errors.Is(err, ErrRequestNotFound):
		res.Status = domain.ActionNotFound
		res.Message = MsgNotFound
	case errors.Is(err, ErrAlreadyArchived):
		res.Message = MsgAlreadyArchived
	case errors.Is(err, ErrNotArchived):
		res.Message = MsgNotArchived
	case errors.Is(err, ErrIllegalTransition):
		res.Message = MsgIllegalTransition
	case errors.Is(err, ErrStaleState):
		res.Message = MsgStaleState
	case errors.Is(err, ErrNotificationFailed):
		res.Message = MsgNotificationFailed
		res.Data = data
	default:
		res.Message = MsgGeneric
	}
	return res
}

// transitionError explains why CanTransition rejected action on a request
// in status from.
func transitionError(from domain.Status, action domain.Action) error {
	switch {
	case action == domain.ActionArchive && from == domain.StatusArchived:
		return ErrAlreadyArchived
	case action == domain.ActionUpdateStatus && from == domain.StatusArchived:
		return ErrAlreadyArchived
	case action == domain.ActionDelete:
		return ErrNotArchived
	default:
		return ErrIllegalTransition
	}
}
