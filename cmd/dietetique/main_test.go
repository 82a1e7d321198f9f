package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/auth"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/selection"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type call struct {
	method, path string
	body         map[string]any
}

// fakeAPI answers every request with reply and records what it saw.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []call
	status int
	reply  any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := call{method: r.Method, path: r.URL.Path}
	_ = json.NewDecoder(r.Body).Decode(&c.body)
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_ = json.NewEncoder(w).Encode(f.reply)
}

func newFakeAPI(t *testing.T, status int, reply any) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{status: status, reply: reply}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL + "/api/v1"
}

func TestToken_MintsVerifiableAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "dietetique-cli")

	out, err := run(t, "token", "--sub", "helene", "--ttl", "5m")
	require.NoError(t, err)

	p, err := auth.NewJWTManager("cli-secret", "dietetique-cli", time.Minute).Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "helene", p.UserID)
	assert.True(t, p.IsAdmin())
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestRequestsList_PrintsTable(t *testing.T) {
	page := domain.Page{
		Items: []domain.ContactRequest{{
			ID: "r1", FullName: "Hélène Martin", Email: "helene@example.com",
			Subject: "Bilan", Status: domain.StatusPending, CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		Pagination: domain.Pagination{Page: 1, PerPage: 10, Total: 1, PageCount: 1},
	}
	f, api := newFakeAPI(t, http.StatusOK, page)

	out, err := run(t, "requests", "list", "--api", api, "--status", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "helene@example.com")
	assert.Contains(t, out, "page 1/1, 1 total")
	require.Len(t, f.calls, 1)
	assert.Equal(t, "/api/v1/admin/contact-requests", f.calls[0].path)
}

func TestRequestsList_Empty(t *testing.T) {
	_, api := newFakeAPI(t, http.StatusOK, domain.Page{Items: []domain.ContactRequest{}})
	out, err := run(t, "requests", "list", "--api", api)
	require.NoError(t, err)
	assert.Equal(t, "no contact requests\n", out)
}

func TestRequestsList_RejectsUnknownStatus(t *testing.T) {
	_, err := run(t, "requests", "list", "--api", "http://127.0.0.1:1", "--status", "lost")
	require.Error(t, err)
}

func TestRequestsStatus_SingleUsesItemRoute(t *testing.T) {
	reply := domain.Result[domain.ContactRequest]{Status: domain.ActionSuccess, Message: "Status updated"}
	f, api := newFakeAPI(t, http.StatusOK, reply)

	out, err := run(t, "requests", "status", "completed", "r1", "--api", api)
	require.NoError(t, err)
	assert.Equal(t, "[success] Status updated\n", out)
	require.Len(t, f.calls, 1)
	assert.Equal(t, http.MethodPatch, f.calls[0].method)
	assert.Equal(t, "/api/v1/admin/contact-requests/r1/status", f.calls[0].path)
	assert.Equal(t, "COMPLETED", f.calls[0].body["status"])
}

func TestRequestsArchive_SeveralUsesBulkRouteAndDedupes(t *testing.T) {
	reply := domain.Result[domain.BulkOutcome]{Status: domain.ActionSuccess, Message: "2 requests archived"}
	f, api := newFakeAPI(t, http.StatusOK, reply)

	out, err := run(t, "requests", "archive", "r2,r1", "r2", "--api", api, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "[loading] Working...")
	assert.Contains(t, out, "[success] 2 requests archived")
	require.Len(t, f.calls, 1)
	assert.Equal(t, "/api/v1/admin/contact-requests/bulk/archive", f.calls[0].path)
	assert.Equal(t, []any{"r1", "r2"}, f.calls[0].body["ids"])
}

func TestRequestsDelete_FailureIsReported(t *testing.T) {
	reply := domain.Result[domain.ContactRequest]{Status: domain.ActionError, Message: "Only archived requests can be deleted"}
	_, api := newFakeAPI(t, http.StatusConflict, reply)

	out, err := run(t, "requests", "delete", "r1", "--api", api)
	assert.True(t, errors.Is(err, errReported))
	assert.Equal(t, "[error] Only archived requests can be deleted\n", out)
}

func TestRequestsStatus_ValidationFieldsPrinted(t *testing.T) {
	reply := domain.Result[domain.BulkOutcome]{
		Status:           domain.ActionValidationError,
		Message:          "Invalid input",
		ValidationErrors: map[string][]string{"ids": {"at least one id is required"}},
	}
	_, api := newFakeAPI(t, http.StatusBadRequest, reply)

	out, err := run(t, "requests", "status", "archived", "a", "b", "--api", api)
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "[validation] Invalid input\n  ids: at least one id is required\n", out)
}

func TestPick(t *testing.T) {
	sel, err := pick([]string{"b, a", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sel.IDs())

	_, err = pick([]string{" , "})
	assert.Error(t, err)
}

func TestMutateSelection_ReleasesOnSuccessOnly(t *testing.T) {
	ok := domain.Result[domain.BulkOutcome]{Status: domain.ActionSuccess, Message: "done"}
	_, api := newFakeAPI(t, http.StatusOK, ok)
	f := &apiFlags{api: api}

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	sel := &selection.Selection{}
	sel.Toggle("r1")
	sel.Toggle("r2")
	require.NoError(t, mutateSelection(cmd, f, sel, f.client().BulkArchive))
	assert.Zero(t, sel.Len())
	assert.False(t, sel.IsPending())

	_, failing := newFakeAPI(t, http.StatusInternalServerError, domain.Result[domain.BulkOutcome]{Status: domain.ActionError, Message: "boom"})
	f.api = failing
	sel.Toggle("r3")
	assert.ErrorIs(t, mutateSelection(cmd, f, sel, f.client().BulkArchive), errReported)
	assert.Equal(t, []string{"r3"}, sel.IDs())
	assert.False(t, sel.IsPending())
}

func TestRequestsGet_PrintsDetail(t *testing.T) {
	r := domain.ContactRequest{
		ID: "r1", FullName: "Zoé Dupont", Email: "zoe@example.com", Subject: "Suivi",
		Message: "Bonjour, je souhaite un rendez-vous.", Status: domain.StatusInProgress,
		Attachments: []domain.Attachment{{ID: "a1", Filename: "bilan.pdf", URL: "https://files.example.com/bilan.pdf"}},
	}
	f, api := newFakeAPI(t, http.StatusOK, r)

	out, err := run(t, "requests", "get", "r1", "--api", api)
	require.NoError(t, err)
	assert.Contains(t, out, "Zoé Dupont <zoe@example.com>")
	assert.Contains(t, out, "bilan.pdf https://files.example.com/bilan.pdf")
	assert.Contains(t, out, "je souhaite un rendez-vous")
	assert.Equal(t, "/api/v1/admin/contact-requests/r1", f.calls[0].path)
}

func TestRequestsList_UnauthorizedHint(t *testing.T) {
	_, api := newFakeAPI(t, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": "admin access required"})
	_, err := run(t, "requests", "list", "--api", api)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIETETIQUE_TOKEN")
}

func TestRequestsSubmit(t *testing.T) {
	reply := domain.Result[domain.ContactRequest]{
		Status: domain.ActionSuccess, Message: "Request sent",
		Data: &domain.ContactRequest{ID: "new-1", Status: domain.StatusPending},
	}
	f, api := newFakeAPI(t, http.StatusCreated, reply)

	out, err := run(t, "requests", "submit", "--api", api,
		"--name", "Zoé Dupont", "--email", "zoe@example.com", "--subject", "Bilan",
		"--message", "Bonjour, je voudrais un bilan.", "--attach", "bilan.pdf=https://files.example.com/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[success] Request sent\nnew-1\n", out)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "/api/v1/contact-requests", f.calls[0].path)
	assert.Equal(t, "Zoé Dupont", f.calls[0].body["full_name"])
	atts, _ := f.calls[0].body["attachments"].([]any)
	require.Len(t, atts, 1)
	assert.Equal(t, "bilan.pdf", atts[0].(map[string]any)["name"])
}

func TestRequestsSubmit_BadAttachmentFlag(t *testing.T) {
	_, err := run(t, "requests", "submit", "--api", "http://127.0.0.1:1", "--attach", "no-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=url")
}

func TestUnknownStatusListsChoices(t *testing.T) {
	_, err := run(t, "requests", "status", "lost", "r1", "--api", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PENDING, IN_PROGRESS, COMPLETED, ARCHIVED")
}
