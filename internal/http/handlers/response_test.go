package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})
	r.GET("/missing", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if w.Code != http.StatusInternalServerError || resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal {
		t.Fatalf("unexpected: %d %+v", w.Code, resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound || buf.Len() != 0 {
		t.Fatalf("4xx must not log: %d %s", w.Code, buf.String())
	}
}

func TestHTTPStatus(t *testing.T) {
	rec := &domain.ContactRequest{ID: "x"}
	cases := []struct {
		res  domain.Result[domain.ContactRequest]
		want int
	}{
		{domain.Result[domain.ContactRequest]{Status: domain.ActionSuccess, Data: rec}, http.StatusCreated},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionValidationError}, http.StatusBadRequest},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionUnauthorized}, http.StatusUnauthorized},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionNotFound}, http.StatusNotFound},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionError, Err: fmt.Errorf("%w: x", services.ErrAlreadyArchived)}, http.StatusConflict},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionError, Err: services.ErrStaleState}, http.StatusConflict},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionError, Err: services.ErrNotificationFailed, Data: rec}, http.StatusCreated},
		{domain.Result[domain.ContactRequest]{Status: domain.ActionError, Err: errors.New("disk")}, http.StatusInternalServerError},
	}
	for i, c := range cases {
		if got := HTTPStatus(c.res, http.StatusCreated); got != c.want {
			t.Fatalf("case %d: got %d want %d", i, got, c.want)
		}
	}
}

func TestEtag(t *testing.T) {
	a, b := etagFor("list|n=1"), etagFor("list|n=2")
	if a == b || !strings.HasPrefix(a, `W/"`) {
		t.Fatalf("etags: %s %s", a, b)
	}
	if !etagMatches(`W/"x", `+a, a) || !etagMatches("*", a) || etagMatches(b, a) {
		t.Fatal("If-None-Match matching")
	}
}
