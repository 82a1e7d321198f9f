// Package handlers provides the HTTP handlers for the contact request API.
//
// This file holds the response helpers shared by every endpoint: the
// ErrorResponse envelope for transport failures, and the mapping from a
// mutation outcome to an HTTP status.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/http/middleware"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
)

// ErrorResponse is the error envelope for transport failures and reads.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"contact request not found"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail, for router-level handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// HTTPStatus maps a mutation outcome to its HTTP status. success is the
// status used for SUCCESS (201 for creation). ERROR splits into 409 for
// state-machine rejections and 500 for storage failures; a notification
// failure still created the resource and answers success.
func HTTPStatus[T any](res domain.Result[T], success int) int {
	switch res.Status {
	case domain.ActionSuccess:
		return success
	case domain.ActionValidationError:
		return http.StatusBadRequest
	case domain.ActionUnauthorized:
		return http.StatusUnauthorized
	case domain.ActionNotFound:
		return http.StatusNotFound
	}
	switch {
	case services.IsConflict(res.Err):
		return http.StatusConflict
	case res.Data != nil:
		return success
	default:
		return http.StatusInternalServerError
	}
}

// respond writes a mutation outcome with its mapped status.
func respond[T any](c *gin.Context, res domain.Result[T], success int) {
	status := HTTPStatus(res, success)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Err(res.Err).Int("status", status).Msg("mutation failed")
	}
	c.JSON(status, res)
}
