// Package responses holds the HTTP response envelopes and the error-to-status
// mapping shared by all handlers.
package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// ErrorResponse is the error envelope returned on every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps a service error onto an HTTP status and writes the error
// envelope. Unknown error types map to 500.
func HandleError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError

	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		status = platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
		platformerrors.LogError(logger.GetLogger(), platformErr)

		c.AbortWithStatusJSON(status, ErrorResponse{
			Error:     message,
			Code:      platformErr.UUID,
			RequestID: requestID(c),
		})
		return
	}

	if err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		RequestID: requestID(c),
	})
}

// HandleErrorWithStatus writes the error envelope with an explicit status.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Int("status", status).Str("path", c.FullPath()).Msg(message)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		RequestID: requestID(c),
	})
}

func requestID(c *gin.Context) string {
	if val, ok := c.Get("X-Request-Id"); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
