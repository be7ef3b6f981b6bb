package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kit service specific errors
var (
	ErrKitNotFound       = errors.New("kit not found")
	ErrInvalidKitID      = errors.New("invalid kit id")
	ErrInvalidListParams = errors.New("invalid list parameters")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// Error codes
const (
	CodeKitNotFound       = "KIT_NOT_FOUND"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeDatabaseOperation = "DATABASE_OPERATION_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrKitNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error":   "Kit not found",
			"details": err.Error(),
		})
	case errors.Is(err, ErrInvalidKitID), errors.Is(err, ErrInvalidListParams):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Invalid request",
			Details: err.Error(),
		})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database operation failed",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "An unexpected error occurred",
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
}
