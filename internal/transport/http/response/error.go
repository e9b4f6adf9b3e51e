package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/logger"
)

// ErrorBody keeps the flat {"msg": ...} shape existing clients read.
type ErrorBody struct {
	Msg       string            `json:"msg"`
	Code      string            `json:"code"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError converts a domain error into a consistent JSON HTTP error response.
// Anything that maps to 500, domain or not, is answered with the generic
// internal_error body; the real code and cause are only logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "Internal server error"
	var meta map[string]string

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		code = de.Code
		message = de.Message
		meta = de.Meta
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")

		code, message, meta = "internal_error", "Internal server error", nil
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorBody{
		Msg:       message,
		Code:      code,
		Meta:      meta,
		RequestID: RequestIDFromContext(r),
	})
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
