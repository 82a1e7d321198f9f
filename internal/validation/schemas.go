package validation

import (
	"strings"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// MaxBulkIDs caps a bulk selection at one admin page.
const MaxBulkIDs = domain.MaxPerPage

// AttachmentInput is one uploaded file referenced by the creation form.
type AttachmentInput struct {
	URL  string `json:"url"  validate:"required,url"`
	Name string `json:"name" validate:"required"`
}

// CreateInput is the raw public submission. Any status sent by the client is
// not part of this shape and therefore never reaches storage.
type CreateInput struct {
	FullName    string            `json:"full_name"   validate:"required,min=2,personname"`
	Email       string            `json:"email"       validate:"required,email"`
	Subject     string            `json:"subject"     validate:"required"`
	Message     string            `json:"message"     validate:"required,min=10,max=2000"`
	Attachments []AttachmentInput `json:"attachments" validate:"max=3,dive"`
}

// StatusInput is a single status change.
type StatusInput struct {
	ID     string        `json:"id"     validate:"required"`
	Status domain.Status `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED ARCHIVED"`
}

// BulkInput selects several requests for archive or delete.
type BulkInput struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}

// BulkStatusInput moves several requests to one status.
type BulkStatusInput struct {
	IDs    []string      `json:"ids"    validate:"required,min=1,max=100,dive,required"`
	Status domain.Status `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED ARCHIVED"`
}

type idInput struct {
	ID string `json:"id" validate:"required"`
}

// Create validates a public submission. Email and subject are trimmed; the
// name and message are checked exactly as submitted.
func Create(in CreateInput) (CreateInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	if err := check(in); err != nil {
		return CreateInput{}, err
	}
	return in, nil
}

// ID validates a single target identifier.
func ID(id string) (string, error) {
	if err := check(idInput{ID: id}); err != nil {
		return "", err
	}
	return id, nil
}

// StatusUpdate validates a single status change. The status is matched
// case-insensitively.
func StatusUpdate(in StatusInput) (StatusInput, error) {
	in.Status = normalizeStatus(in.Status)
	if err := check(in); err != nil {
		return StatusInput{}, err
	}
	return in, nil
}

// Bulk collapses duplicate ids, keeping the first occurrence order, and then
// validates the selection. The size cap applies to distinct ids.
func Bulk(in BulkInput) (BulkInput, error) {
	in.IDs = dedupe(in.IDs)
	if err := check(in); err != nil {
		return BulkInput{}, err
	}
	return in, nil
}

// BulkStatus validates a bulk status change, deduplicating like Bulk.
func BulkStatus(in BulkStatusInput) (BulkStatusInput, error) {
	in.IDs = dedupe(in.IDs)
	in.Status = normalizeStatus(in.Status)
	if err := check(in); err != nil {
		return BulkStatusInput{}, err
	}
	return in, nil
}

func normalizeStatus(s domain.Status) domain.Status {
	return domain.Status(strings.ToUpper(strings.TrimSpace(string(s))))
}

func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
