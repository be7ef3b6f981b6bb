package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gunplahub/api/internal/listquery"
)

// Admin service specific errors
var (
	ErrUnknownResource   = errors.New("unknown admin resource")
	ErrRowNotFound       = errors.New("row not found")
	ErrUnknownField      = errors.New("unknown field in payload")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidRowID      = errors.New("invalid row id")
	ErrEmptyPayload      = errors.New("empty payload")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// Error codes
const (
	CodeUnknownResource   = "UNKNOWN_RESOURCE"
	CodeRowNotFound       = "ROW_NOT_FOUND"
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
	case errors.Is(err, ErrUnknownResource):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeUnknownResource,
			Message: "Unknown resource",
			Details: err.Error(),
		})
	case errors.Is(err, ErrRowNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeRowNotFound,
			Message: "Row not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidRowID),
		errors.Is(err, ErrEmptyPayload),
		errors.Is(err, listquery.ErrInvalidFilterField),
		errors.Is(err, listquery.ErrInvalidSortField):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeDatabaseOperation,
			Message: "Database operation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}
