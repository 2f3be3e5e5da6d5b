package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/miniapp-backend/internal/common/errors"
	"github.com/your-org/miniapp-backend/internal/common/logger"
)

// ErrorHandler recovers panics and renders errors attached to the gin
// context as JSON, mapping AppError codes to HTTP status.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(c.GetString("request_id"))
		sendErrorResponse(c, appErr)
	})
}

// DrainErrors renders the last error a handler attached via c.Error.
func DrainErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Handler error occurred")
		}
		sendErrorResponse(c, appErr.WithRequestID(c.GetString("request_id")))
	}
}

type errorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	logEvent := logger.Error()
	switch {
	case appErr.IsUnauthorized():
		logEvent = logger.Warn()
	case appErr.IsNotFound():
		logEvent = logger.Info()
	}
	logEvent.
		Str("request_id", appErr.RequestID).
		Str("error_code", string(appErr.Code)).
		Str("path", c.Request.URL.Path).
		Err(appErr.Cause).
		Msg(appErr.Message)

	// Internal failures keep their detail in the logs only.
	rendered := appErr
	if appErr.IsInternal() {
		rendered = errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(appErr.RequestID)
	}

	c.JSON(httpStatus(appErr), errorResponse{
		Success:   false,
		Error:     rendered,
		Timestamp: time.Now(),
		RequestID: appErr.RequestID,
	})
}

func httpStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCacheError:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTelegramAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
