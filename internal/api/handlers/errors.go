package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/models"
	"github.com/softwarewrighter/midi-cli/internal/storage"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case midi.IsValidation(err),
		errors.Is(err, midi.ErrEncodingOverflow),
		errors.Is(err, models.ErrNoPlayableNotes),
		errors.Is(err, storage.ErrInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server errors are logged
// and reported with msg instead of the internal detail.
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := logger.WithContext(c)
		logger.Error(msg, err, fields)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
