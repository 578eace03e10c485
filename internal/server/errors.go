package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runoshun/taskflow/internal/domain"
)

// errBadRequest marks malformed input that has no domain sentinel.
var errBadRequest = errors.New("bad request")

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOverlap):
		return http.StatusNotAcceptable
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNegativeDuration),
		errors.Is(err, domain.ErrDurationTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err, "request_id", c.GetString(requestIDKey))
	}
	c.AbortWithStatusJSON(status, errorDTO{Error: err.Error()})
}
