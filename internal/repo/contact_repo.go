// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ContactRequest aggregate (request row plus its ordered attachments).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business rules, only persistence and query composition. The
// state machine lives in domain.CanTransition and is enforced by the service
// layer; the repository only makes writes conditional on the status the
// service observed.
//
// Error semantics:
//   - A missing request yields ErrNotFound (gorm.ErrRecordNotFound).
//   - A conditional write that matches no row yields ErrConflict: the row
//     changed or vanished after it was read.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrConflict is returned when a conditional update or delete affects no row.
var ErrConflict = errors.New("repo: conditional write matched no row")

// Filter narrows list and count queries.
type Filter struct {
	Status domain.Status // empty: any status
	Terms  []string      // folded search terms, all must match
}

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByStatus:    "status",
	domain.SortByFullName:  "full_name",
	domain.SortByEmail:     "email",
}

// CreateContactRequest inserts r and its attachments in one statement batch.
// Missing ids are generated, attachment positions follow slice order and
// timestamps default to now (UTC).
func CreateContactRequest(ctx context.Context, db *gorm.DB, r *domain.ContactRequest) error {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	for i := range r.Attachments {
		a := &r.Attachments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.ContactRequestID = r.ID
		a.Position = i
		if a.CreatedAt.IsZero() {
			a.CreatedAt = r.CreatedAt
		}
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetContactRequest fetches one request with its attachments in submission
// order, or ErrNotFound.
func GetContactRequest(ctx context.Context, db *gorm.DB, id string) (*domain.ContactRequest, error) {
	var r domain.ContactRequest
	err := db.WithContext(ctx).
		Preload("Attachments", orderedAttachments).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountContactRequests returns the number of rows matching f.
func CountContactRequests(ctx context.Context, db *gorm.DB, f Filter) (int64, error) {
	var total int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.ContactRequest{}), f).
		Count(&total).Error
	return total, err
}

// ListContactRequestsPage returns one page of requests matching f, ordered by
// the given field and direction with id as a stable tie-breaker. The caller
// computes offset and limit.
func ListContactRequestsPage(ctx context.Context, db *gorm.DB, f Filter, by domain.SortField, order domain.SortOrder, offset, limit int) ([]domain.ContactRequest, error) {
	col, ok := sortColumns[by]
	if !ok {
		col = sortColumns[domain.SortByCreatedAt]
	}
	desc := order != domain.SortAsc

	out := []domain.ContactRequest{}
	err := applyFilter(db.WithContext(ctx), f).
		Preload("Attachments", orderedAttachments).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateStatus moves request id from status `from` to `to` and stamps
// updated_at. The write only applies if the row still has status `from`;
// otherwise ErrConflict.
func UpdateStatus(ctx context.Context, db *gorm.DB, id string, from, to domain.Status, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ContactRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": now.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// DeleteContactRequest hard-deletes request id if it still has status
// `from`, then removes its attachments. ErrConflict if no row matched.
func DeleteContactRequest(ctx context.Context, db *gorm.DB, id string, from domain.Status) error {
	res := db.WithContext(ctx).
		Where("id = ? AND status = ?", id, from).
		Delete(&domain.ContactRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	// Covers drivers or connections without FK enforcement.
	return db.WithContext(ctx).
		Where("contact_request_id = ?", id).
		Delete(&domain.Attachment{}).Error
}

func orderedAttachments(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	for _, t := range f.Terms {
		q = q.Where(`search_text LIKE ? ESCAPE '\'`, "%"+escapeLike(t)+"%")
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
