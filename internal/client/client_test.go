package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

type seen struct {
	method, path, query, auth, idem, ctype string
	body                                   map[string]any
}

func server(t *testing.T, status int, reply any) (*Client, *seen) {
	t.Helper()
	s := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method, s.path, s.query = r.Method, r.URL.Path, r.URL.RawQuery
		s.auth, s.idem, s.ctype = r.Header.Get("Authorization"), r.Header.Get("Idempotency-Key"), r.Header.Get("Content-Type")
		s.body = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &s.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", "tok"), s
}

func TestList_BuildsQueryAndDecodes(t *testing.T) {
	page := domain.Page{
		Items:      []domain.ContactRequest{{ID: "r1", Status: domain.StatusPending}},
		Pagination: domain.Pagination{Page: 2, PerPage: 5, Total: 6, PageCount: 2},
	}
	c, s := server(t, http.StatusOK, page)

	got, err := c.List(context.Background(), domain.ListQuery{
		Search: "élise", Status: domain.StatusPending, Page: 2, PerPage: 5,
		SortBy: domain.SortByCreatedAt, SortOrder: domain.SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, page.Pagination, got.Pagination)
	assert.Equal(t, "r1", got.Items[0].ID)
	assert.Equal(t, "/api/v1/admin/contact-requests", s.path)
	assert.Equal(t, "page=2&per_page=5&search=%C3%A9lise&sort_by=createdAt&sort_order=asc&status=PENDING", s.query)
	assert.Equal(t, "Bearer tok", s.auth)
}

func TestRead_ErrorEnvelope(t *testing.T) {
	c, _ := server(t, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": "Admin access required", "request_id": "rid"})

	_, err := c.Get(context.Background(), "r1")
	require.Error(t, err)
	var ae *APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "unauthorized", ae.Code)
	assert.Equal(t, "rid", ae.RequestID)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestMutations_ReturnEnvelopeWhateverTheStatus(t *testing.T) {
	c, s := server(t, http.StatusConflict, domain.Result[domain.ContactRequest]{
		Status: domain.ActionError, Message: "Request must be archived first",
	})
	res, err := c.Delete(context.Background(), "r 1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionError, res.Status)
	assert.Equal(t, http.MethodDelete, s.method)
	assert.Equal(t, "/api/v1/admin/contact-requests/r 1", s.path)
}

func TestMutations_RequestShapes(t *testing.T) {
	ok := domain.Result[domain.BulkOutcome]{Status: domain.ActionSuccess, Data: &domain.BulkOutcome{Count: 2}}
	c, s := server(t, http.StatusOK, ok)
	ctx := context.Background()

	res, err := c.BulkUpdateStatus(ctx, []string{"a", "b"}, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.Count)
	assert.Equal(t, "/api/v1/admin/contact-requests/bulk/status", s.path)
	assert.Equal(t, "application/json", s.ctype)
	assert.Equal(t, map[string]any{"ids": []any{"a", "b"}, "status": "COMPLETED"}, s.body)

	_, _ = c.BulkArchive(ctx, []string{"a"})
	assert.Equal(t, "/api/v1/admin/contact-requests/bulk/archive", s.path)
	_, _ = c.BulkDelete(ctx, []string{"a"})
	assert.Equal(t, "/api/v1/admin/contact-requests/bulk/delete", s.path)

	_, _ = c.UpdateStatus(ctx, "r1", domain.StatusInProgress)
	assert.Equal(t, http.MethodPatch, s.method)
	assert.Equal(t, map[string]any{"status": "IN_PROGRESS"}, s.body)

	_, _ = c.Archive(ctx, "r1")
	assert.Equal(t, "/api/v1/admin/contact-requests/r1/archive", s.path)
	assert.Nil(t, s.body, "archive sends no body")
}

func TestSubmit_SendsIdempotencyKey(t *testing.T) {
	c, s := server(t, http.StatusCreated, domain.Result[domain.ContactRequest]{
		Status: domain.ActionSuccess, Data: &domain.ContactRequest{ID: "new"},
	})
	res, err := c.Submit(context.Background(), validation.CreateInput{FullName: "Élise", Email: "e@example.com"}, "k-1")
	require.NoError(t, err)
	assert.Equal(t, "new", res.Data.ID)
	assert.Equal(t, "k-1", s.idem)
	assert.Equal(t, "Élise", s.body["full_name"])
}

func TestMutations_NonEnvelopeAnswer(t *testing.T) {
	c, _ := server(t, http.StatusTooManyRequests, map[string]string{"code": "too_many_requests", "message": "slow down"})
	_, err := c.Archive(context.Background(), "r1")
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Contains(t, err.Error(), "slow down")
}

func TestTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	_, err := c.Archive(context.Background(), "r1")
	require.Error(t, err)
	assert.False(t, IsStatus(err, http.StatusInternalServerError))
}
