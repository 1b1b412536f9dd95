package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// FieldError names the draft field a validation message belongs to.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse is returned with 422 when a wizard step fails validation.
// Message is the single error surfaced to the page; Errors carries every
// failing field in priority order.
type ValidationResponse struct {
	Message string       `json:"message"`
	Field   string       `json:"field"`
	Errors  []FieldError `json:"errors"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.FullPath()))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONValidationError sends a 422 with the surfaced message and the full ordered list.
func JSONValidationError(c *gin.Context, errs []FieldError) {
	resp := ValidationResponse{Errors: errs}
	if len(errs) > 0 {
		resp.Message = errs[0].Message
		resp.Field = errs[0].Field
	}
	c.JSON(http.StatusUnprocessableEntity, resp)
}
