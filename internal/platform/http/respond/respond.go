// Package respond writes error responses in the shared api envelope.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/platform/txn"
)

const exposeKey = "respond.expose_internal"

// ExposeInternalErrors makes Internal include the error text in the response.
// Install it only in development.
func ExposeInternalErrors(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeKey, expose)
		c.Next()
	}
}

// Error writes status with the given code, message and optional details.
func Error(c *gin.Context, status int, code, msg string, details any) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg, Code: code, Details: details})
}

// BadRequest writes 400 invalid_input.
func BadRequest(c *gin.Context, msg string, details any) {
	Error(c, http.StatusBadRequest, api.CodeInvalidInput, msg, details)
}

// NotFound writes 404 not_found.
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, api.CodeNotFound, msg, nil)
}

// Unauthenticated writes 401 when the auth middleware did not populate a user.
func Unauthenticated(c *gin.Context) {
	Error(c, http.StatusUnauthorized, api.CodeUnauthorized, "authentication required", nil)
}

// Internal logs err and writes 500. Retry-exhausted conflicts are turned into 503 instead.
func Internal(c *gin.Context, err error) {
	if errors.Is(err, txn.ErrRetryExhausted) {
		RetryExhausted(c, err)
		return
	}
	slog.Error("request failed", "error", err, "method", c.Request.Method, "path", c.FullPath(), "remote_addr", c.ClientIP())

	body := api.ErrorResponse{Error: "internal server error", Code: api.CodeInternal}
	if c.GetBool(exposeKey) {
		body.Details = gin.H{"detail": err.Error()}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// RetryExhausted writes 503 with Retry-After so clients know the request is safe to repeat.
func RetryExhausted(c *gin.Context, err error) {
	slog.Warn("transaction conflict retries exhausted", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, api.ErrorResponse{
		Error:     "the request conflicted with concurrent updates, please retry",
		Code:      api.CodeConflictRetryExhausted,
		Retryable: true,
	})
}
