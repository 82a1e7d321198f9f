// Admin endpoints for contact requests.
//
//   - GET    /admin/contact-requests              (list, ETag support)
//   - GET    /admin/contact-requests/{id}         (get)
//   - PATCH  /admin/contact-requests/{id}/status  (update status)
//   - POST   /admin/contact-requests/{id}/archive (archive)
//   - DELETE /admin/contact-requests/{id}         (delete, archived only)
//   - POST   /admin/contact-requests/bulk/{status,archive,delete}
//
// Every endpoint requires an admin bearer token; the check itself lives in
// the services.
package handlers

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/utils"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/validation"
)

// UpdateStatusRequest is the body of PATCH /admin/contact-requests/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" example:"IN_PROGRESS"`
}

// BulkRequest selects requests for a bulk archive or delete.
type BulkRequest struct {
	IDs []string `json:"ids"`
}

// BulkStatusRequest moves the selected requests to one status.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status" example:"COMPLETED"`
}

// listQuery reads the list parameters. Malformed values are normalized by
// the service, never rejected.
func listQuery(c *gin.Context) domain.ListQuery {
	status, _ := domain.ParseStatus(c.Query("status"))
	return domain.ListQuery{
		Search:    c.Query("search"),
		Status:    status,
		Page:      utils.AtoiDefault(c.Query("page"), 1),
		PerPage:   utils.AtoiDefault(c.Query("per_page"), domain.DefaultPerPage),
		SortBy:    domain.SortField(c.Query("sort_by")),
		SortOrder: domain.SortOrder(c.Query("sort_order")),
	}
}

// etagFor derives a weak ETag from a list fingerprint.
func etagFor(fp string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fp))
	return fmt.Sprintf(`W/"cr-%x"`, h.Sum64())
}

func etagMatches(header, etag string) bool {
	for _, v := range strings.Split(header, ",") {
		if v = strings.TrimSpace(v); v == etag || v == "*" {
			return true
		}
	}
	return false
}

// ListContactRequests godoc
// @ID          listContactRequests
// @Summary     List contact requests
// @Description Paginated, filterable, sortable admin list. Out-of-range paging and unknown sort values fall back to defaults. A storage failure yields an empty page with page 0. Supports a weak ETag via If-None-Match.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       search         query   string  false  "Accent-insensitive search on name, email, subject, message"
// @Param       status         query   string  false  "Status filter"  Enums(PENDING, IN_PROGRESS, COMPLETED, ARCHIVED)
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       per_page       query   int     false  "Items per page"  minimum(1) maximum(100) default(10)
// @Param       sort_by        query   string  false  "Sort field"      Enums(createdAt, status, fullName, email) default(createdAt)
// @Param       sort_order     query   string  false  "Sort direction"  Enums(asc, desc) default(desc)
//
// @Success     200  {object}  domain.Page
// @Header      200  {string}  ETag  "Weak ETag for the current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Not an admin"
// @Router      /admin/contact-requests [get]
func (h *Handlers) ListContactRequests(c *gin.Context) {
	ctx := c.Request.Context()
	q := listQuery(c)

	fp, err := h.queries.Fingerprint(ctx, q)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.MsgUnauthorized)
		return
	case err == nil:
		etag := etagFor(fp)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && etagMatches(inm, etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	page, err := h.queries.List(ctx, q)
	if err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.MsgUnauthorized)
		return
	}
	ok(c, http.StatusOK, page)
}

// GetContactRequest godoc
// @ID          getContactRequest
// @Summary     Get a contact request
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Request ID"  format(uuid)
// @Success     200  {object}  domain.ContactRequest
// @Failure     401  {object}  handlers.ErrorResponse  "Not an admin"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/contact-requests/{id} [get]
func (h *Handlers) GetContactRequest(c *gin.Context) {
	r, err := h.queries.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.MsgUnauthorized)
	case errors.Is(err, services.ErrRequestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, services.MsgNotFound)
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, services.MsgGeneric)
	default:
		ok(c, http.StatusOK, r)
	}
}

// UpdateContactRequestStatus godoc
// @ID          updateContactRequestStatus
// @Summary     Change the status of a contact request
// @Description Moving to ARCHIVED requires a non-archived request; moving away from ARCHIVED restores it.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                        true  "Request ID"  format(uuid)
// @Param       body  body      handlers.UpdateStatusRequest  true  "New status"
// @Success     200   {object}  domain.Result[domain.ContactRequest]
// @Failure     400   {object}  domain.Result[domain.ContactRequest]  "Validation error"
// @Failure     401   {object}  domain.Result[domain.ContactRequest]  "Not an admin"
// @Failure     404   {object}  domain.Result[domain.ContactRequest]  "Not found"
// @Failure     409   {object}  domain.Result[domain.ContactRequest]  "Illegal transition"
// @Router      /admin/contact-requests/{id}/status [patch]
func (h *Handlers) UpdateContactRequestStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res := h.admin.UpdateStatus(c.Request.Context(), validation.StatusInput{ID: c.Param("id"), Status: domain.Status(req.Status)})
	respond(c, res, http.StatusOK)
}

// ArchiveContactRequest godoc
// @ID          archiveContactRequest
// @Summary     Archive a contact request
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Request ID"  format(uuid)
// @Success     200  {object}  domain.Result[domain.ContactRequest]
// @Failure     401  {object}  domain.Result[domain.ContactRequest]  "Not an admin"
// @Failure     404  {object}  domain.Result[domain.ContactRequest]  "Not found"
// @Failure     409  {object}  domain.Result[domain.ContactRequest]  "Already archived"
// @Router      /admin/contact-requests/{id}/archive [post]
func (h *Handlers) ArchiveContactRequest(c *gin.Context) {
	respond(c, h.admin.Archive(c.Request.Context(), c.Param("id")), http.StatusOK)
}

// DeleteContactRequest godoc
// @ID          deleteContactRequest
// @Summary     Delete an archived contact request
// @Description Hard delete. The body carries the request as it was before deletion.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Request ID"  format(uuid)
// @Success     200  {object}  domain.Result[domain.ContactRequest]
// @Failure     401  {object}  domain.Result[domain.ContactRequest]  "Not an admin"
// @Failure     404  {object}  domain.Result[domain.ContactRequest]  "Not found"
// @Failure     409  {object}  domain.Result[domain.ContactRequest]  "Not archived"
// @Router      /admin/contact-requests/{id} [delete]
func (h *Handlers) DeleteContactRequest(c *gin.Context) {
	respond(c, h.admin.Delete(c.Request.Context(), c.Param("id")), http.StatusOK)
}

// BulkUpdateStatus godoc
// @ID          bulkUpdateContactRequestStatus
// @Summary     Change the status of several contact requests
// @Description All-or-nothing: one missing id or illegal transition rejects the whole batch.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.BulkStatusRequest  true  "Selection and status"
// @Success     200   {object}  domain.Result[domain.BulkOutcome]
// @Failure     400   {object}  domain.Result[domain.BulkOutcome]  "Validation error"
// @Failure     401   {object}  domain.Result[domain.BulkOutcome]  "Not an admin"
// @Failure     404   {object}  domain.Result[domain.BulkOutcome]  "An id was not found"
// @Failure     409   {object}  domain.Result[domain.BulkOutcome]  "Illegal transition"
// @Router      /admin/contact-requests/bulk/status [post]
func (h *Handlers) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res := h.admin.BulkUpdateStatus(c.Request.Context(), validation.BulkStatusInput{IDs: req.IDs, Status: domain.Status(req.Status)})
	respond(c, res, http.StatusOK)
}

// BulkArchive godoc
// @ID          bulkArchiveContactRequests
// @Summary     Archive several contact requests
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.BulkRequest  true  "Selection"
// @Success     200   {object}  domain.Result[domain.BulkOutcome]
// @Failure     400   {object}  domain.Result[domain.BulkOutcome]  "Validation error"
// @Failure     409   {object}  domain.Result[domain.BulkOutcome]  "An item is already archived"
// @Router      /admin/contact-requests/bulk/archive [post]
func (h *Handlers) BulkArchive(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	respond(c, h.admin.BulkArchive(c.Request.Context(), validation.BulkInput{IDs: req.IDs}), http.StatusOK)
}

// BulkDelete godoc
// @ID          bulkDeleteContactRequests
// @Summary     Delete several archived contact requests
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.BulkRequest  true  "Selection"
// @Success     200   {object}  domain.Result[domain.BulkOutcome]
// @Failure     400   {object}  domain.Result[domain.BulkOutcome]  "Validation error"
// @Failure     409   {object}  domain.Result[domain.BulkOutcome]  "An item is not archived"
// @Router      /admin/contact-requests/bulk/delete [post]
func (h *Handlers) BulkDelete(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	respond(c, h.admin.BulkDelete(c.Request.Context(), validation.BulkInput{IDs: req.IDs}), http.StatusOK)
}
