package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail names the error kind and a caller-safe message.
type ErrorDetail struct {
	Kind    apperrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindDependency:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorBody. Internal errors are logged with their cause.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(StatusFor(kind), ErrorBody{Error: ErrorDetail{
		Kind:    kind,
		Message: apperrors.Message(err),
	}})
}

// bind gates the caller, then decodes the body into v. Unauthorized callers get the
// same 401 whatever they sent; malformed input is a validation error.
func (h *handler) bind(c *gin.Context, op string, v any) bool {
	if !h.svc.Authorized(c.Request.Context()) {
		respondError(c, apperrors.New(apperrors.KindUnauthorized, op, "caller is not authorized"))
		return false
	}
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, apperrors.Validation(op, "malformed request body: %v", err))
		return false
	}
	return true
}
