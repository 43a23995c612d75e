package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/shared/telemetry"
)

// Envelope is the uniform response body shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Filters any    `json:"filters,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// List writes a 200 success envelope with a count and the effective filters.
func List(c *gin.Context, data any, count int, filters any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Filters: filters})
}

// Error logs and writes a failure envelope, aborting the request.
func Error(c *gin.Context, status int, message string, fieldErrors any) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if accountID := c.GetString("accountId"); accountID != "" {
		fields["account_id"] = accountID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}
