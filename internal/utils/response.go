package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/usersdb/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// NoContentResponse sends a 204 with an empty body
func NoContentResponse(c *fiber.Ctx) error {
	c.Status(fiber.StatusNoContent)
	c.Response().ResetBody()
	return nil
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(newErrorBody(c, message, status, errorType))
}

// APIErrorResponse sends an APIError, including its field violations
func APIErrorResponse(c *fiber.Ctx, err *types.APIError) error {
	status := err.Status()
	body := newErrorBody(c, err.Message, status, err.Type)
	body.Errors = err.Fields()
	return c.Status(status).JSON(body)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(newErrorBody(c, message, fiber.StatusNotFound, ""))
}

func newErrorBody(c *fiber.Ctx, message string, status int, errorType string) ErrorResponseStruct {
	return ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int                 `json:"status"`
	Message   string              `json:"message"`
	Ok        bool                `json:"ok"`
	Timestamp string              `json:"timestamp"`
	URL       string              `json:"url"`
	Type      string              `json:"type,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// ListResponseStruct defines the schema for unpaginated listings
type ListResponseStruct[T any] struct {
	Data []T `json:"data"`
}

// PageResponseStruct defines the schema for paginated listings
type PageResponseStruct[T any, M any] struct {
	Data []T `json:"data"`
	Meta M   `json:"meta"`
}
