// Package services – QueryService
//
// This file implements the admin reads: the paginated, filterable, sortable
// list and single-request lookup. Both are admin-only and served through the
// tag cache (internal/cache); tags come from cache.ListTags/RecordTags so they
// line up with what mutations invalidate.
//
// Reads are best-effort. Malformed paging or sort input is normalized, never
// rejected, and a storage failure on the list is logged and downgraded to an
// empty page-zero result, which is not cached.
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
)

// ContactReader defines the repository contract required by QueryService.
type ContactReader interface {
	// CountContactRequests returns the number of rows matching f.
	CountContactRequests(ctx context.Context, db *gorm.DB, f repo.Filter) (int64, error)
	// ListContactRequestsPage returns one ordered page of rows matching f.
	ListContactRequestsPage(ctx context.Context, db *gorm.DB, f repo.Filter, by domain.SortField, order domain.SortOrder, offset, limit int) ([]domain.ContactRequest, error)
	// GetContactRequest fetches one request with its attachments.
	GetContactRequest(ctx context.Context, db *gorm.DB, id string) (*domain.ContactRequest, error)
	// ContactRequestsStats returns the row count and latest update for f.
	ContactRequestsStats(ctx context.Context, db *gorm.DB, f repo.Filter) (int64, *time.Time, error)
}

// QueryService serves admin reads of contact requests.
type QueryService struct {
	DB   *gorm.DB
	Repo ContactReader
	Auth Authorizer
	// Cache may be nil, in which case every read hits storage.
	Cache *cache.Store
	// MaxPerPage caps per_page. Defaults to domain.MaxPerPage.
	MaxPerPage int
}

// NewQueryService constructs a QueryService.
func NewQueryService(db *gorm.DB, r ContactReader, auth Authorizer, store *cache.Store, maxPerPage int) *QueryService {
	return &QueryService{DB: db, Repo: r, Auth: auth, Cache: store, MaxPerPage: maxPerPage}
}

// Normalize applies the service's paging bounds and sort fallbacks to q.
func (s *QueryService) Normalize(q domain.ListQuery) domain.ListQuery {
	return q.Normalize(s.MaxPerPage)
}

// List returns one page of requests. The only error is ErrUnauthorized;
// storage failures yield domain.EmptyPage.
func (s *QueryService) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	q = s.Normalize(q)
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("status", string(q.Status)),
			attribute.Bool("search", q.Search != ""),
			attribute.Int("page", q.Page),
			attribute.Int("per_page", q.PerPage),
			attribute.String("sort", fmt.Sprintf("%s:%s", q.SortBy, q.SortOrder)),
		),
	)
	defer span.End()

	if !s.isAdmin(ctx) {
		return domain.Page{}, ErrUnauthorized
	}

	page, err := cache.Fetch(ctx, s.Cache, cache.ListKey(q), cache.ListTags(q), func(ctx context.Context) (domain.Page, error) {
		return s.load(ctx, q)
	})
	if err != nil {
		listFallbacks.Inc()
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("contact request list failed, serving empty page")
		return domain.EmptyPage(q.PerPage), nil
	}
	return page, nil
}

func (s *QueryService) load(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	f := filterOf(q)
	total, err := s.Repo.CountContactRequests(ctx, s.DB, f)
	if err != nil {
		return domain.Page{}, err
	}

	pageCount := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	page := q.Page
	if pageCount == 0 {
		page = 1
	} else if page > pageCount {
		page = pageCount
	}

	items := []domain.ContactRequest{}
	if total > 0 {
		items, err = s.Repo.ListContactRequestsPage(ctx, s.DB, f, q.SortBy, q.SortOrder, (page-1)*q.PerPage, q.PerPage)
		if err != nil {
			return domain.Page{}, err
		}
	}
	return domain.Page{
		Items: items,
		Pagination: domain.Pagination{
			Page:      page,
			PerPage:   q.PerPage,
			Total:     total,
			PageCount: pageCount,
		},
	}, nil
}

// Get returns one request, ErrRequestNotFound, ErrUnauthorized or a storage
// error.
func (s *QueryService) Get(ctx context.Context, id string) (*domain.ContactRequest, error) {
	tr := otel.Tracer("services/QueryService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("request.id", id)))
	defer span.End()

	if !s.isAdmin(ctx) {
		return nil, ErrUnauthorized
	}
	r, err := cache.Fetch(ctx, s.Cache, cache.RecordKey(id), cache.RecordTags(id), func(ctx context.Context) (*domain.ContactRequest, error) {
		return s.Repo.GetContactRequest(ctx, s.DB, id)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	// Callers get their own copy; the cached value stays untouched.
	cp := *r
	cp.Attachments = append([]domain.Attachment(nil), r.Attachments...)
	return &cp, nil
}

// Fingerprint returns a weak validator for the list q would produce: it
// changes whenever a matching row is added, removed or updated.
func (s *QueryService) Fingerprint(ctx context.Context, q domain.ListQuery) (string, error) {
	if !s.isAdmin(ctx) {
		return "", ErrUnauthorized
	}
	q = s.Normalize(q)
	count, maxTS, err := s.Repo.ContactRequestsStats(ctx, s.DB, filterOf(q))
	if err != nil {
		return "", err
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	return fmt.Sprintf("%s|n=%d|u=%d", cache.ListKey(q), count, ts), nil
}

func (s *QueryService) isAdmin(ctx context.Context) bool {
	return s.Auth != nil && s.Auth.IsAdmin(ctx)
}

func filterOf(q domain.ListQuery) repo.Filter {
	return repo.Filter{Status: q.Status, Terms: search.Terms(q.Search)}
}
