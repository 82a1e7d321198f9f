// Package client is a small HTTP client for the contact request API, used by
// the back-office command line. Mutations return the server's outcome
// envelope as-is; only transport failures become Go errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// APIError is a non-envelope error answer: unknown route, rate limiting,
// unauthorized reads and the like.
type APIError struct {
	StatusCode int    `json:"-"`
	RequestID  string `json:"request_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == status
}

// Client talks to one API base URL, e.g. "http://localhost:8080/api/v1".
type Client struct {
	BaseURL string
	// Token is sent as a bearer token when set.
	Token string
	HTTP  *http.Client
}

// New returns a Client with a bounded default timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit posts a public contact request. key, when set, is sent as the
// Idempotency-Key header.
func (c *Client) Submit(ctx context.Context, in validation.CreateInput, key string) (domain.Result[domain.ContactRequest], error) {
	var hdr http.Header
	if key != "" {
		hdr = http.Header{"Idempotency-Key": {key}}
	}
	return mutate[domain.ContactRequest](ctx, c, http.MethodPost, "/contact-requests", in, hdr)
}

// List fetches one page of requests.
func (c *Client) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.SortBy != "" {
		v.Set("sort_by", string(q.SortBy))
	}
	if q.SortOrder != "" {
		v.Set("sort_order", string(q.SortOrder))
	}
	path := "/admin/contact-requests"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var page domain.Page
	err := c.read(ctx, path, &page)
	return page, err
}

// Get fetches one request.
func (c *Client) Get(ctx context.Context, id string) (*domain.ContactRequest, error) {
	var r domain.ContactRequest
	if err := c.read(ctx, "/admin/contact-requests/"+url.PathEscape(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateStatus sets the status of one request.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Result[domain.ContactRequest], error) {
	body := map[string]string{"status": string(status)}
	return mutate[domain.ContactRequest](ctx, c, http.MethodPatch, "/admin/contact-requests/"+url.PathEscape(id)+"/status", body, nil)
}

// Archive archives one request.
func (c *Client) Archive(ctx context.Context, id string) (domain.Result[domain.ContactRequest], error) {
	return mutate[domain.ContactRequest](ctx, c, http.MethodPost, "/admin/contact-requests/"+url.PathEscape(id)+"/archive", nil, nil)
}

// Delete removes one archived request.
func (c *Client) Delete(ctx context.Context, id string) (domain.Result[domain.ContactRequest], error) {
	return mutate[domain.ContactRequest](ctx, c, http.MethodDelete, "/admin/contact-requests/"+url.PathEscape(id), nil, nil)
}

// BulkUpdateStatus sets status on every id.
func (c *Client) BulkUpdateStatus(ctx context.Context, ids []string, status domain.Status) (domain.Result[domain.BulkOutcome], error) {
	body := map[string]any{"ids": ids, "status": status}
	return mutate[domain.BulkOutcome](ctx, c, http.MethodPost, "/admin/contact-requests/bulk/status", body, nil)
}

// BulkArchive archives every id.
func (c *Client) BulkArchive(ctx context.Context, ids []string) (domain.Result[domain.BulkOutcome], error) {
	return mutate[domain.BulkOutcome](ctx, c, http.MethodPost, "/admin/contact-requests/bulk/archive", map[string]any{"ids": ids}, nil)
}

// BulkDelete removes every id.
func (c *Client) BulkDelete(ctx context.Context, ids []string) (domain.Result[domain.BulkOutcome], error) {
	return mutate[domain.BulkOutcome](ctx, c, http.MethodPost, "/admin/contact-requests/bulk/delete", map[string]any{"ids": ids}, nil)
}

func (c *Client) read(ctx context.Context, path string, out any) error {
	resp, body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// mutate sends a mutation and decodes its outcome envelope. Answers without
// an envelope (e.g. 429) are returned as *APIError.
func mutate[T any](ctx context.Context, c *Client, method, path string, in any, hdr http.Header) (domain.Result[T], error) {
	var res domain.Result[T]
	resp, body, err := c.do(ctx, method, path, in, hdr)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(body, &res); err != nil || res.Status == "" {
		return domain.Result[T]{}, apiError(resp, body)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, hdr http.Header) (*http.Response, []byte, error) {
	var rdr io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, nil, err
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, body, nil
}

func apiError(resp *http.Response, body []byte) error {
	e := &APIError{StatusCode: resp.StatusCode}
	_ = json.Unmarshal(body, e)
	return e
}
