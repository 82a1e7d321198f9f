package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/http/middleware"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// ---------- fakes ----------

type fakeSubmitter struct {
	got      services.CreateInput
	res      domain.Result[domain.ContactRequest]
	replayed bool
}

func (f *fakeSubmitter) Create(_ context.Context, in services.CreateInput) (domain.Result[domain.ContactRequest], bool) {
	f.got = in
	return f.res, f.replayed
}

type fakeQueries struct {
	gotQuery domain.ListQuery
	page     domain.Page
	fp       string
	err      error
	rec      *domain.ContactRequest
	getErr   error
}

func (f *fakeQueries) List(_ context.Context, q domain.ListQuery) (domain.Page, error) {
	f.gotQuery = q
	return f.page, f.err
}

func (f *fakeQueries) Get(context.Context, string) (*domain.ContactRequest, error) {
	return f.rec, f.getErr
}

func (f *fakeQueries) Fingerprint(context.Context, domain.ListQuery) (string, error) {
	return f.fp, f.err
}

type fakeAdmin struct {
	status validation.StatusInput
	bulk   validation.BulkStatusInput
	ids    []string
	one    domain.Result[domain.ContactRequest]
	many   domain.Result[domain.BulkOutcome]
}

func (f *fakeAdmin) UpdateStatus(_ context.Context, in validation.StatusInput) domain.Result[domain.ContactRequest] {
	f.status = in
	return f.one
}
func (f *fakeAdmin) Archive(_ context.Context, id string) domain.Result[domain.ContactRequest] {
	f.ids = []string{id}
	return f.one
}
func (f *fakeAdmin) Delete(_ context.Context, id string) domain.Result[domain.ContactRequest] {
	f.ids = []string{id}
	return f.one
}
func (f *fakeAdmin) BulkUpdateStatus(_ context.Context, in validation.BulkStatusInput) domain.Result[domain.BulkOutcome] {
	f.bulk = in
	return f.many
}
func (f *fakeAdmin) BulkArchive(_ context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome] {
	f.ids = in.IDs
	return f.many
}
func (f *fakeAdmin) BulkDelete(_ context.Context, in validation.BulkInput) domain.Result[domain.BulkOutcome] {
	f.ids = in.IDs
	return f.many
}

func newRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/contact-requests", middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil), h.CreateContactRequest)
	r.GET("/admin/contact-requests", h.ListContactRequests)
	r.GET("/admin/contact-requests/:id", h.GetContactRequest)
	r.PATCH("/admin/contact-requests/:id/status", h.UpdateContactRequestStatus)
	r.POST("/admin/contact-requests/:id/archive", h.ArchiveContactRequest)
	r.DELETE("/admin/contact-requests/:id", h.DeleteContactRequest)
	r.POST("/admin/contact-requests/bulk/status", h.BulkUpdateStatus)
	r.POST("/admin/contact-requests/bulk/archive", h.BulkArchive)
	r.POST("/admin/contact-requests/bulk/delete", h.BulkDelete)
	return r
}

func send(r http.Handler, method, target, contentType, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- create ----------

func TestCreateContactRequest_JSON(t *testing.T) {
	sub := &fakeSubmitter{res: domain.Result[domain.ContactRequest]{
		Status: domain.ActionSuccess, Message: services.MsgCreated, Data: &domain.ContactRequest{ID: "new", Status: domain.StatusPending},
	}}
	r := newRouter(New(sub, &fakeQueries{}, &fakeAdmin{}))

	body := `{"full_name":"Jean Dupont","email":"jean@example.com","subject":"RDV","message":"Bonjour, un rendez-vous svp","status":"ARCHIVED","attachments":[{"url":"https://f.example.com/a","name":"a.pdf"}]}`
	w := send(r, http.MethodPost, "/contact-requests", "application/json", body, map[string]string{middleware.HeaderIdempotencyKey: "k-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if sub.got.FullName != "Jean Dupont" || len(sub.got.Attachments) != 1 || sub.got.IdempotencyKey != "k-1" {
		t.Fatalf("bound input: %+v", sub.got)
	}
	var res domain.Result[domain.ContactRequest]
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Data.ID != "new" || res.Status != domain.ActionSuccess {
		t.Fatalf("body: %v %s", err, w.Body.String())
	}
}

func TestCreateContactRequest_Form(t *testing.T) {
	sub := &fakeSubmitter{res: domain.Result[domain.ContactRequest]{Status: domain.ActionSuccess, Data: &domain.ContactRequest{ID: "f"}}}
	r := newRouter(New(sub, &fakeQueries{}, &fakeAdmin{}))

	form := url.Values{
		"fullName":            {"Élise Martin"},
		"email":               {"elise@example.com"},
		"subject":             {"Bilan"},
		"message":             {"Bonjour, je voudrais un bilan."},
		"attachments[1].url":  {"https://f.example.com/2"},
		"attachments[1].name": {"deux.pdf"},
		"attachments[0].url":  {"https://f.example.com/1"},
		"attachments[0].name": {"un.pdf"},
		"attachments[x].url":  {"ignored"},
	}
	w := send(r, http.MethodPost, "/contact-requests", "application/x-www-form-urlencoded", form.Encode(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	got := sub.got
	if got.FullName != "Élise Martin" || got.Message == "" || len(got.Attachments) != 2 {
		t.Fatalf("bound form: %+v", got)
	}
	if got.Attachments[0].Name != "un.pdf" || got.Attachments[1].URL != "https://f.example.com/2" {
		t.Fatalf("attachment order: %+v", got.Attachments)
	}
}

func TestSubmissionFromForm_KeepsEveryAttachmentIndex(t *testing.T) {
	form := url.Values{
		"attachments[100].url": {"https://f.example.com/100"},
		"attachments[10].url":  {"https://f.example.com/10"},
		"attachments[2].url":   {"https://f.example.com/2"},
		"attachments[02].name": {"deux.pdf"},
		"attachments[0].url":   {"https://f.example.com/0"},
	}
	got := submissionFromForm(form).Attachments
	if len(got) != 4 {
		t.Fatalf("attachments = %+v, want 4", got)
	}
	want := []string{"https://f.example.com/0", "https://f.example.com/2", "https://f.example.com/10", "https://f.example.com/100"}
	for i, a := range got {
		if a.URL != want[i] {
			t.Fatalf("attachment %d = %+v, want url %s", i, a, want[i])
		}
	}
	if got[1].Name != "deux.pdf" {
		t.Fatalf("leading zeros should address the same index: %+v", got[1])
	}
}

func TestCreateContactRequest_FormErrorsUseFormNames(t *testing.T) {
	sub := &fakeSubmitter{res: domain.Result[domain.ContactRequest]{
		Status:           domain.ActionValidationError,
		ValidationErrors: map[string][]string{"full_name": {"Full name is required"}, "attachments[0].url": {"Invalid attachment URL"}},
	}}
	r := newRouter(New(sub, &fakeQueries{}, &fakeAdmin{}))

	form := url.Values{"email": {"elise@example.com"}}
	w := send(r, http.MethodPost, "/contact-requests", "application/x-www-form-urlencoded", form.Encode(), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var env domain.Result[domain.ContactRequest]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := env.ValidationErrors["fullName"]; !ok {
		t.Fatalf("form errors should use fullName: %+v", env.ValidationErrors)
	}
	if _, ok := env.ValidationErrors["full_name"]; ok {
		t.Fatalf("json key leaked on the form path: %+v", env.ValidationErrors)
	}
	if len(env.ValidationErrors["attachments[0].url"]) != 1 {
		t.Fatalf("attachment key changed: %+v", env.ValidationErrors)
	}

	sub.res.ValidationErrors = map[string][]string{"full_name": {"Full name is required"}}
	w = send(r, http.MethodPost, "/contact-requests", "application/json", `{"email":"elise@example.com"}`, nil)
	if !strings.Contains(w.Body.String(), `"full_name"`) {
		t.Fatalf("json path must keep json keys: %s", w.Body.String())
	}
}

func TestCreateContactRequest_OutcomesToStatus(t *testing.T) {
	sub := &fakeSubmitter{}
	r := newRouter(New(sub, &fakeQueries{}, &fakeAdmin{}))
	valid := `{"full_name":"Jean Dupont"}`

	if w := send(r, http.MethodPost, "/contact-requests", "application/json", "{bad", nil); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), ErrCodeBadRequest) {
		t.Fatalf("malformed JSON: %d %s", w.Code, w.Body.String())
	}

	sub.res = domain.Result[domain.ContactRequest]{Status: domain.ActionValidationError, ValidationErrors: map[string][]string{"email": {"Email is required"}}}
	w := send(r, http.MethodPost, "/contact-requests", "application/json", valid, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"validation_errors"`) {
		t.Fatalf("validation: %d %s", w.Code, w.Body.String())
	}

	sub.res = domain.Result[domain.ContactRequest]{Status: domain.ActionError, Message: services.MsgNotificationFailed, Err: services.ErrNotificationFailed, Data: &domain.ContactRequest{ID: "saved"}}
	if w := send(r, http.MethodPost, "/contact-requests", "application/json", valid, nil); w.Code != http.StatusCreated {
		t.Fatalf("notification failure should still be 201, got %d", w.Code)
	}

	sub.res = domain.Result[domain.ContactRequest]{Status: domain.ActionSuccess, Data: &domain.ContactRequest{ID: "old"}}
	sub.replayed = true
	w = send(r, http.MethodPost, "/contact-requests", "application/json", valid, nil)
	if w.Code != http.StatusOK || w.Header().Get(HeaderReplay) != "true" {
		t.Fatalf("replay: %d %v", w.Code, w.Header())
	}
}

// ---------- admin reads ----------

func TestListContactRequests_QueryAndETag(t *testing.T) {
	q := &fakeQueries{fp: "fp-1", page: domain.Page{Items: []domain.ContactRequest{{ID: "a"}}, Pagination: domain.Pagination{Page: 1, PerPage: 5, Total: 1, PageCount: 1}}}
	r := newRouter(New(&fakeSubmitter{}, q, &fakeAdmin{}))

	w := send(r, http.MethodGet, "/admin/contact-requests?search=dupont&status=archived&page=2&per_page=5&sort_by=email&sort_order=asc", "", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want := domain.ListQuery{Search: "dupont", Status: domain.StatusArchived, Page: 2, PerPage: 5, SortBy: "email", SortOrder: "asc"}
	if q.gotQuery != want {
		t.Fatalf("query = %+v, want %+v", q.gotQuery, want)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	var page domain.Page
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page.Items) != 1 {
		t.Fatalf("body: %v %s", err, w.Body.String())
	}

	w = send(r, http.MethodGet, "/admin/contact-requests", "", "", map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional get: %d", w.Code)
	}

	q.fp = "fp-2"
	if w := send(r, http.MethodGet, "/admin/contact-requests", "", "", map[string]string{"If-None-Match": etag}); w.Code != http.StatusOK {
		t.Fatalf("changed list must be served, got %d", w.Code)
	}
}

func TestListContactRequests_Unauthorized(t *testing.T) {
	r := newRouter(New(&fakeSubmitter{}, &fakeQueries{err: services.ErrUnauthorized}, &fakeAdmin{}))
	if w := send(r, http.MethodGet, "/admin/contact-requests", "", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetContactRequest(t *testing.T) {
	q := &fakeQueries{rec: &domain.ContactRequest{ID: "r1"}}
	r := newRouter(New(&fakeSubmitter{}, q, &fakeAdmin{}))

	if w := send(r, http.MethodGet, "/admin/contact-requests/r1", "", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"id":"r1"`) {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}
	q.getErr = services.ErrRequestNotFound
	if w := send(r, http.MethodGet, "/admin/contact-requests/r1", "", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("not found: %d", w.Code)
	}
	q.getErr = services.ErrUnauthorized
	if w := send(r, http.MethodGet, "/admin/contact-requests/r1", "", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthorized: %d", w.Code)
	}
	q.getErr = context.DeadlineExceeded
	if w := send(r, http.MethodGet, "/admin/contact-requests/r1", "", "", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("storage: %d", w.Code)
	}
}

// ---------- admin mutations ----------

func TestAdminMutations_BindAndMap(t *testing.T) {
	a := &fakeAdmin{
		one:  domain.Result[domain.ContactRequest]{Status: domain.ActionSuccess, Data: &domain.ContactRequest{ID: "r1"}},
		many: domain.Result[domain.BulkOutcome]{Status: domain.ActionSuccess, Data: &domain.BulkOutcome{Count: 2}},
	}
	r := newRouter(New(&fakeSubmitter{}, &fakeQueries{}, a))

	w := send(r, http.MethodPatch, "/admin/contact-requests/r1/status", "application/json", `{"status":"COMPLETED"}`, nil)
	if w.Code != http.StatusOK || a.status.ID != "r1" || a.status.Status != domain.StatusCompleted {
		t.Fatalf("patch: %d %+v", w.Code, a.status)
	}
	if w := send(r, http.MethodPatch, "/admin/contact-requests/r1/status", "application/json", `nope`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad body: %d", w.Code)
	}
	if w := send(r, http.MethodPost, "/admin/contact-requests/r9/archive", "", "", nil); w.Code != http.StatusOK || a.ids[0] != "r9" {
		t.Fatalf("archive: %d %v", w.Code, a.ids)
	}
	if w := send(r, http.MethodDelete, "/admin/contact-requests/r8", "", "", nil); w.Code != http.StatusOK || a.ids[0] != "r8" {
		t.Fatalf("delete: %d %v", w.Code, a.ids)
	}
	w = send(r, http.MethodPost, "/admin/contact-requests/bulk/status", "application/json", `{"ids":["a","b"],"status":"PENDING"}`, nil)
	if w.Code != http.StatusOK || len(a.bulk.IDs) != 2 || a.bulk.Status != domain.StatusPending {
		t.Fatalf("bulk status: %d %+v", w.Code, a.bulk)
	}
	if w := send(r, http.MethodPost, "/admin/contact-requests/bulk/archive", "application/json", `{"ids":["c"]}`, nil); w.Code != http.StatusOK || a.ids[0] != "c" {
		t.Fatalf("bulk archive: %d", w.Code)
	}
	if w := send(r, http.MethodPost, "/admin/contact-requests/bulk/delete", "application/json", `{"ids":["d"]}`, nil); w.Code != http.StatusOK || a.ids[0] != "d" {
		t.Fatalf("bulk delete: %d", w.Code)
	}

	a.one = domain.Result[domain.ContactRequest]{Status: domain.ActionError, Message: services.MsgNotArchived, Err: services.ErrNotArchived}
	if w := send(r, http.MethodDelete, "/admin/contact-requests/r8", "", "", nil); w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), services.MsgNotArchived) {
		t.Fatalf("conflict: %d %s", w.Code, w.Body.String())
	}
	a.many = domain.Result[domain.BulkOutcome]{Status: domain.ActionNotFound}
	if w := send(r, http.MethodPost, "/admin/contact-requests/bulk/archive", "application/json", `{"ids":["x"]}`, nil); w.Code != http.StatusNotFound {
		t.Fatalf("bulk not found: %d", w.Code)
	}
	a.many = domain.Result[domain.BulkOutcome]{Status: domain.ActionUnauthorized}
	if w := send(r, http.MethodPost, "/admin/contact-requests/bulk/delete", "application/json", `{"ids":["x"]}`, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bulk unauthorized: %d", w.Code)
	}
}
