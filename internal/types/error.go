package types

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an APIError into the response taxonomy.
type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Violation is a single failed constraint on a field path.
type Violation struct {
	Path    string `json:"propertyPath"`
	Message string `json:"message"`
}

// APIError is an error that knows how it must be presented to a client.
type APIError struct {
	Kind       Kind        `json:"-"`
	Message    string      `json:"message"`
	Type       string      `json:"type"`
	Violations []Violation `json:"-"`
	cause      error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s [type: %s]: %v", e.Kind, e.Message, e.Type, e.cause)
	}
	return fmt.Sprintf("%s: %s [type: %s]", e.Kind, e.Message, e.Type)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Status maps the error kind to its HTTP status code.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// Fields groups the violation messages by property path.
func (e *APIError) Fields() map[string][]string {
	if len(e.Violations) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		fields[v.Path] = append(fields[v.Path], v.Message)
	}
	return fields
}

func BadRequest(message, errorType string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message, Type: errorType}
}

// Invalid reports a validation failure carrying every violation.
func Invalid(errorType string, violations []Violation) *APIError {
	return &APIError{
		Kind:       KindBadRequest,
		Message:    "Validation failed",
		Type:       errorType,
		Violations: violations,
	}
}

func NotFound(message, errorType string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message, Type: errorType}
}

// Internal hides cause from the client; it is only reachable through Unwrap.
func Internal(errorType string, cause error) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: "Internal Server Error",
		Type:    errorType,
		cause:   cause,
	}
}

// AsAPIError extracts an APIError from the chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
