// Package services – ContactService
//
// This file implements public submission of contact requests. Creation has
// no admin gate: the input is validated, the request is persisted with
// status PENDING whatever the client sent, and an email notification is
// attempted after commit. A failed notification never rolls the request
// back; the caller gets a softer error that still carries the record.
//
// Submissions may carry an idempotency key. A retry with the same key within
// the TTL replays the stored request and does not notify again.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/cache"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/repo"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/search"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// Success messages for creation.
const (
	MsgCreated          = "Your request has been sent"
	MsgAlreadySubmitted = "Your request has already been received"
)

// DefaultIdempotencyTTL is used when ContactService.IdempotencyTTL is zero.
const DefaultIdempotencyTTL = 24 * time.Hour

// Notifier delivers the "new contact request" message to the practice.
type Notifier interface {
	NotifyContactRequest(ctx context.Context, r *domain.ContactRequest) error
}

// ContactService handles public creation of contact requests.
type ContactService struct {
	DB *gorm.DB
	// Auth identifies an optional logged-in submitter. May be nil.
	Auth Authorizer
	// Cache receives the tags released by a new request. May be nil.
	Cache Invalidator
	// Notifier is called once per created request. May be nil.
	Notifier Notifier
	// IdempotencyTTL bounds how long a key replays its request.
	IdempotencyTTL time.Duration
}

// CreateInput is one public submission plus its optional idempotency key.
type CreateInput struct {
	validation.CreateInput
	IdempotencyKey string
}

// Create validates and persists a submission. The boolean reports whether
// the result is a replay of an earlier submission with the same key.
func (s *ContactService) Create(ctx context.Context, in CreateInput) (domain.Result[domain.ContactRequest], bool) {
	tr := otel.Tracer("services/ContactService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int("attachments", len(in.Attachments)),
			attribute.Bool("idempotent", in.IdempotencyKey != ""),
		),
	)
	defer span.End()

	replayed := false
	res := run(ctx, s.Auth, s.Cache, mutation[CreateInput, domain.ContactRequest]{
		action: string(domain.ActionCreate),
		public: true,
		validate: func(in CreateInput) (CreateInput, error) {
			v, err := validation.Create(in.CreateInput)
			in.CreateInput = v
			return in, err
		},
		apply: func(ctx context.Context, in CreateInput) (*domain.ContactRequest, []string, error) {
			r, replay, err := s.persist(ctx, in)
			if err != nil {
				return nil, nil, err
			}
			if replay {
				replayed = true
				return r, nil, nil
			}
			tags := cache.MutationTags(r.ID, "", r.Status)
			if err := s.notify(ctx, r); err != nil {
				return r, tags, err
			}
			return r, tags, nil
		},
		success: func(*domain.ContactRequest) string {
			if replayed {
				return MsgAlreadySubmitted
			}
			return MsgCreated
		},
	}, in)
	return res, replayed
}

// persist writes the request (and the idempotency record, if keyed) in one
// transaction, or returns the request an earlier submission with the same
// key produced.
func (s *ContactService) persist(ctx context.Context, in CreateInput) (*domain.ContactRequest, bool, error) {
	key := in.IdempotencyKey
	if key != "" {
		if r, ok, err := s.replay(ctx, key); err != nil || ok {
			return r, ok, err
		}
	}

	r := newContactRequest(in.CreateInput)
	if s.Auth != nil && !s.Auth.IsAdmin(ctx) {
		if uid := s.Auth.UserID(ctx); uid != "" {
			r.UserID = &uid
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateContactRequest(ctx, tx, r); err != nil {
			return err
		}
		if key == "" {
			return nil
		}
		_, err := repo.CreateIdempotency(ctx, tx, domain.IdempotencyScopeContact, key, r.ID, 201, s.ttl())
		return err
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent submission with the same key committed first.
		r, ok, rerr := s.replay(ctx, key)
		if rerr != nil || ok {
			return r, ok, rerr
		}
	}
	if err != nil {
		return nil, false, err
	}
	return r, false, nil
}

func (s *ContactService) replay(ctx context.Context, key string) (*domain.ContactRequest, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, domain.IdempotencyScopeContact, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r, err := repo.GetContactRequest(ctx, s.DB, rec.ResourceID)
	if errors.Is(err, repo.ErrNotFound) {
		// Already processed and since deleted by an admin.
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func (s *ContactService) notify(ctx context.Context, r *domain.ContactRequest) error {
	if s.Notifier == nil {
		return nil
	}
	if err := s.Notifier.NotifyContactRequest(ctx, r); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("request_id", r.ID).Msg("contact request notification failed")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

func (s *ContactService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return DefaultIdempotencyTTL
}

// newContactRequest builds the record for a validated submission. The status
// is always PENDING.
func newContactRequest(in validation.CreateInput) *domain.ContactRequest {
	r := &domain.ContactRequest{
		FullName:    in.FullName,
		Email:       in.Email,
		Subject:     in.Subject,
		Message:     in.Message,
		Status:      domain.StatusPending,
		SearchText:  search.Document(in.FullName, in.Email, in.Subject, in.Message),
		Attachments: make([]domain.Attachment, 0, len(in.Attachments)),
	}
	for _, a := range in.Attachments {
		r.Attachments = append(r.Attachments, domain.Attachment{Filename: a.Name, URL: a.URL})
	}
	return r
}
