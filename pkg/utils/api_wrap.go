package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors to HTTP responses. Internal
// details (ledger contents, stack traces) never leave the process; the
// caller gets a generic envelope and the specifics go to the log.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMalformedPayload):
		RespondError(c, http.StatusBadRequest, "Invalid payload")
	case errors.Is(err, ErrInvalidIdentifier):
		RespondError(c, http.StatusBadRequest, "Invalid identifier")
	case errors.Is(err, ErrDatabaseError):
		log.WithError(err).Error("Database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.WithError(err).Error("Unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
