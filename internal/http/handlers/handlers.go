package handlers

import (
	"context"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// ContactSubmitter creates contact requests from the public form.
type ContactSubmitter interface {
	Create(ctx context.Context, in services.CreateInput) (domain.Result[domain.ContactRequest], bool)
}

// ContactQueries serves admin reads.
type ContactQueries interface {
	List(ctx context.Context, q domain.ListQuery) (domain.Page, error)
	Get(ctx context.Context, id string) (*domain.ContactRequest, error)
	Fingerprint(ctx context.Context, q domain.ListQuery) (string, error)
}

// ContactAdmin applies admin mutations.
type ContactAdmin interface {
	UpdateStatus(ctx context.Context, in validation.StatusInput) domain.Result[domain.ContactRequest]
	Archive(ctx context.Context, id string) domain.Result[domain.ContactRequest]
	Delete(ctx context.Context, id string) domain.Result[domain.ContactRequest]
	BulkUpdateStatus(ctx context.Context, in validation.BulkStatusInput) domain.Result[domain.BulkOutcome]
	BulkArchive(ctx context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome]
	BulkDelete(ctx context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome]
}

// Handlers groups the HTTP endpoints. Services are reached through the
// interfaces above so tests can substitute fakes.
type Handlers struct {
	submit  ContactSubmitter
	queries ContactQueries
	admin   ContactAdmin
}

// New constructs a Handlers bound to the given services.
func New(submit ContactSubmitter, queries ContactQueries, admin ContactAdmin) *Handlers {
	return &Handlers{submit: submit, queries: queries, admin: admin}
}
