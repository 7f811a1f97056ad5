package handlers

import (
	"errors"
	"net/http"

	"mockquiz-service/internal/access"
	"mockquiz-service/internal/selection"
	"mockquiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP responses with a uniform
// {"success": false, "error": ...} body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case service.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, access.ErrEnrollmentRequired):
		status = http.StatusForbidden
	case service.IsQuotaExceeded(err):
		status = http.StatusTooManyRequests
	case errors.Is(err, selection.ErrNoQuestions):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
