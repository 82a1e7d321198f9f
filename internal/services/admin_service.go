// Package services – AdminService
//
// This file implements the admin mutations on contact requests: status
// update, archive and delete, each in a single and a bulk form. Every call
// goes through the same pipeline (see pipeline.go): admin gate, schema
// validation, then a transaction that checks domain.CanTransition and applies
// a write conditional on the status it observed, then tag invalidation.
//
// Bulk variants authorize once and are all-or-nothing: ids are processed
// sequentially in input order inside one transaction and the first missing
// id, illegal state or concurrent change rolls the whole batch back.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/cache"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/repo"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// AdminService owns admin-side lifecycle changes of contact requests.
type AdminService struct {
	// DB is the database handle; each call opens its own transaction.
	DB *gorm.DB
	// Auth gates every operation on IsAdmin.
	Auth Authorizer
	// Cache receives the tags released by successful writes. May be nil.
	Cache Invalidator
	// Now stamps updated_at. Defaults to time.Now.
	Now func() time.Time
}

// NewAdminService constructs an AdminService.
func NewAdminService(db *gorm.DB, auth Authorizer, inv Invalidator) *AdminService {
	return &AdminService{DB: db, Auth: auth, Cache: inv, Now: time.Now}
}

// UpdateStatus sets the status of one request. Moving to ARCHIVED requires a
// non-archived request; moving away from ARCHIVED restores it.
func (s *AdminService) UpdateStatus(ctx context.Context, in validation.StatusInput) domain.Result[domain.ContactRequest] {
	ctx, span := s.span(ctx, "UpdateStatus", attribute.String("request.id", in.ID), attribute.String("status", string(in.Status)))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[validation.StatusInput, domain.ContactRequest]{
		action:   string(domain.ActionUpdateStatus),
		validate: validation.StatusUpdate,
		apply: func(ctx context.Context, in validation.StatusInput) (*domain.ContactRequest, []string, error) {
			return s.one(ctx, in.ID, in.Status, domain.ActionUpdateStatus)
		},
		success: func(*domain.ContactRequest) string { return "Status updated" },
	}, in)
}

// Archive moves one non-archived request to ARCHIVED.
func (s *AdminService) Archive(ctx context.Context, id string) domain.Result[domain.ContactRequest] {
	ctx, span := s.span(ctx, "Archive", attribute.String("request.id", id))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[string, domain.ContactRequest]{
		action:   string(domain.ActionArchive),
		validate: validation.ID,
		apply: func(ctx context.Context, id string) (*domain.ContactRequest, []string, error) {
			return s.one(ctx, id, domain.StatusArchived, domain.ActionArchive)
		},
		success: func(*domain.ContactRequest) string { return "Request archived" },
	}, id)
}

// Delete hard-deletes one archived request and returns its last state.
func (s *AdminService) Delete(ctx context.Context, id string) domain.Result[domain.ContactRequest] {
	ctx, span := s.span(ctx, "Delete", attribute.String("request.id", id))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[string, domain.ContactRequest]{
		action:   string(domain.ActionDelete),
		validate: validation.ID,
		apply: func(ctx context.Context, id string) (*domain.ContactRequest, []string, error) {
			return s.one(ctx, id, "", domain.ActionDelete)
		},
		success: func(*domain.ContactRequest) string { return "Request deleted" },
	}, id)
}

// BulkUpdateStatus sets the same status on every selected request.
func (s *AdminService) BulkUpdateStatus(ctx context.Context, in validation.BulkStatusInput) domain.Result[domain.BulkOutcome] {
	ctx, span := s.span(ctx, "BulkUpdateStatus", attribute.Int("ids", len(in.IDs)), attribute.String("status", string(in.Status)))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[validation.BulkStatusInput, domain.BulkOutcome]{
		action:   "bulk_" + string(domain.ActionUpdateStatus),
		validate: validation.BulkStatus,
		apply: func(ctx context.Context, in validation.BulkStatusInput) (*domain.BulkOutcome, []string, error) {
			return s.many(ctx, in.IDs, in.Status, domain.ActionUpdateStatus)
		},
		success: func(o *domain.BulkOutcome) string { return plural(o.Count, "status updated", "statuses updated") },
	}, in)
}

// BulkArchive archives every selected request.
func (s *AdminService) BulkArchive(ctx context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome] {
	ctx, span := s.span(ctx, "BulkArchive", attribute.Int("ids", len(in.IDs)))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[validation.BulkInput, domain.BulkOutcome]{
		action:   "bulk_" + string(domain.ActionArchive),
		validate: validation.Bulk,
		apply: func(ctx context.Context, in validation.BulkInput) (*domain.BulkOutcome, []string, error) {
			return s.many(ctx, in.IDs, domain.StatusArchived, domain.ActionArchive)
		},
		success: func(o *domain.BulkOutcome) string { return plural(o.Count, "request archived", "requests archived") },
	}, in)
}

// BulkDelete deletes every selected request; all must be archived.
func (s *AdminService) BulkDelete(ctx context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome] {
	ctx, span := s.span(ctx, "BulkDelete", attribute.Int("ids", len(in.IDs)))
	defer span.End()

	return run(ctx, s.Auth, s.Cache, mutation[validation.BulkInput, domain.BulkOutcome]{
		action:   "bulk_" + string(domain.ActionDelete),
		validate: validation.Bulk,
		apply: func(ctx context.Context, in validation.BulkInput) (*domain.BulkOutcome, []string, error) {
			return s.many(ctx, in.IDs, "", domain.ActionDelete)
		},
		success: func(o *domain.BulkOutcome) string { return plural(o.Count, "request deleted", "requests deleted") },
	}, in)
}

func (s *AdminService) one(ctx context.Context, id string, to domain.Status, action domain.Action) (*domain.ContactRequest, []string, error) {
	var (
		out  *domain.ContactRequest
		tags []string
	)
	now := s.now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, tags, err = transition(ctx, tx, id, to, action, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return out, tags, nil
}

func (s *AdminService) many(ctx context.Context, ids []string, to domain.Status, action domain.Action) (*domain.BulkOutcome, []string, error) {
	out := &domain.BulkOutcome{Items: make([]domain.ContactRequest, 0, len(ids))}
	var tags [][]string
	now := s.now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			r, t, err := transition(ctx, tx, id, to, action, now)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, *r)
			tags = append(tags, t)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	out.Count = len(out.Items)
	return out, cache.Merge(tags...), nil
}

// transition checks and applies action on request id inside tx. It returns
// the request after the change (before it, for deletion) and the cache tags
// the change makes stale.
func transition(ctx context.Context, tx *gorm.DB, id string, to domain.Status, action domain.Action, now time.Time) (*domain.ContactRequest, []string, error) {
	cur, err := repo.GetContactRequest(ctx, tx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanTransition(cur.Status, to, action) {
		return nil, nil, fmt.Errorf("%w: %s is %s", transitionError(cur.Status, action), id, cur.Status)
	}

	from := cur.Status
	if action == domain.ActionDelete {
		if err := repo.DeleteContactRequest(ctx, tx, id, from); err != nil {
			return nil, nil, staleOr(err, id)
		}
		return cur, cache.MutationTags(id, from, ""), nil
	}

	if err := repo.UpdateStatus(ctx, tx, id, from, to, now); err != nil {
		return nil, nil, staleOr(err, id)
	}
	cur.Status = to
	cur.UpdatedAt = now.UTC()
	return cur, cache.MutationTags(id, from, to), nil
}

func staleOr(err error, id string) error {
	if errors.Is(err, repo.ErrConflict) {
		return fmt.Errorf("%w: %s", ErrStaleState, id)
	}
	return err
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AdminService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/AdminService").Start(ctx, name, trace.WithAttributes(attrs...))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
