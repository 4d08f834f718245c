package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/stockview/internal/apperr"
)

const internalErrorDetail = "internal server error"

// statusFor maps an error to its HTTP status and the detail shown to the client.
func statusFor(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.InvalidInput:
		return http.StatusBadRequest, err.Error()
	case apperr.NotFound:
		return http.StatusNotFound, err.Error()
	case apperr.DataError:
		return http.StatusInternalServerError, err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusInternalServerError, "request timed out"
	}
	return http.StatusInternalServerError, internalErrorDetail
}

// writeError logs err and sends the JSON error body.
func (h *APIHandler) writeError(c *gin.Context, err error) {
	status, detail := statusFor(err)
	requestID := requestIDFrom(c)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(c.Request.Context(), level, "API error",
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("kind", apperr.KindOf(err).String()),
		slog.String("error", err.Error()),
		slog.Int("status_code", status),
	)

	c.AbortWithStatusJSON(status, gin.H{
		"detail":     detail,
		"request_id": requestID,
	})
}

func (h *APIHandler) handlePanic(c *gin.Context, rec any) {
	h.logger.Error("panic in handler",
		slog.String("request_id", requestIDFrom(c)),
		slog.String("path", c.Request.URL.Path),
		slog.Any("panic", rec),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"detail":     internalErrorDetail,
		"request_id": requestIDFrom(c),
	})
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(RequestIDContextKey); id != "" {
		return id
	}
	return "unknown"
}
