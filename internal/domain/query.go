package domain

import "strings"

// SortField is a column the admin list may be ordered by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByStatus    SortField = "status"
	SortByFullName  SortField = "fullName"
	SortByEmail     SortField = "email"
)

// SortOrder is the direction of a list ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// List paging defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ParseSortField returns the matching field, or SortByCreatedAt for anything
// unknown. Reads never fail on malformed sort input.
func ParseSortField(v string) SortField {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "status":
		return SortByStatus
	case "fullname", "full_name":
		return SortByFullName
	case "email":
		return SortByEmail
	default:
		return SortByCreatedAt
	}
}

// ParseSortOrder returns asc for "asc" (any case) and desc otherwise.
func ParseSortOrder(v string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(v), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// ListQuery is the admin list request: free-text search, status filter, sort
// and paging.
type ListQuery struct {
	Search    string
	Status    Status // empty means every status
	Page      int
	PerPage   int
	SortBy    SortField
	SortOrder SortOrder
}

// Normalize clamps paging to [1, maxPerPage], falls back to the default sort
// and drops an unknown status filter. Page is only lower-bounded here; the
// upper bound depends on the row count and is applied by the query layer.
func (q ListQuery) Normalize(maxPerPage int) ListQuery {
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.Status != "" && !q.Status.Valid() {
		q.Status = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 1
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	q.SortBy = ParseSortField(string(q.SortBy))
	q.SortOrder = ParseSortOrder(string(q.SortOrder))
	return q
}

// Pagination carries paging metadata for list responses.
type Pagination struct {
	Page      int   `json:"page"`
	PerPage   int   `json:"per_page"`
	Total     int64 `json:"total"`
	PageCount int   `json:"page_count"`
}

// Page is one page of contact requests plus its metadata.
type Page struct {
	Items      []ContactRequest `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// EmptyPage is the page-zero result served when the store cannot be read.
func EmptyPage(perPage int) Page {
	return Page{
		Items:      []ContactRequest{},
		Pagination: Pagination{Page: 0, PerPage: perPage},
	}
}
