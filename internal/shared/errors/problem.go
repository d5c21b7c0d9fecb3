// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Message mirrors Detail for storefront clients that read a flat message field.
	Message    string         `json:"message,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying the given human message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	p.Message = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

const (
	TypeValidation      = "/problems/validation-error"
	TypeNotFound        = "/problems/not-found"
	TypeInternal        = "/problems/internal-error"
	TypeUnauthorized    = "/problems/unauthorized"
	TypeForbidden       = "/problems/forbidden"
	TypeBadRequest      = "/problems/bad-request"
	TypeTooManyRequests = "/problems/too-many-requests"
	TypeUnavailable     = "/problems/service-unavailable"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest carries business-rule violations such as "Cart is empty".
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	ErrUnauthorized = ProblemDetail{
		Type:    TypeUnauthorized,
		Title:   "Unauthorized",
		Status:  http.StatusUnauthorized,
		Detail:  "Unauthorized",
		Message: "Unauthorized",
	}

	ErrForbidden = ProblemDetail{
		Type:    TypeForbidden,
		Title:   "Forbidden",
		Status:  http.StatusForbidden,
		Detail:  "Forbidden",
		Message: "Forbidden",
	}

	ErrTooManyRequests = ProblemDetail{
		Type:   TypeTooManyRequests,
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
	}

	ErrServiceUnavailable = ProblemDetail{
		Type:   TypeUnavailable,
		Title:  "Service Unavailable",
		Status: http.StatusServiceUnavailable,
	}
)

// NewValidationProblem reports the first failing field as "<field> <message>"
// and lists every field under the "fields" extension.
func NewValidationProblem(field, message string, fieldErrors map[string]string) ProblemDetail {
	problem := ErrValidation.WithDetail(fmt.Sprintf("%s %s", field, message))
	if len(fieldErrors) > 0 {
		problem = problem.WithExtension("fields", fieldErrors)
	}
	return problem
}

// NewNotFoundProblem creates a not found error with the given message.
func NewNotFoundProblem(resourceType string, detail string) ProblemDetail {
	return ErrNotFound.
		WithDetail(detail).
		WithExtension("resourceType", resourceType)
}
