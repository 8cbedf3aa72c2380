package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
)

// Client-facing messages.
const (
	msgInvalidJSON      = "Invalid JSON body."
	msgBodyTooLarge     = "Request body too large."
	msgGenerationFailed = "Failed to generate AI suggestions."
	msgTimeout          = "Guidance generation timed out."
)

// ErrMalformedBody indicates the request body is not valid JSON
type ErrMalformedBody struct {
	Cause error
}

func (e *ErrMalformedBody) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed request body: %v", e.Cause)
	}
	return "malformed request body"
}

func (e *ErrMalformedBody) Unwrap() error {
	return e.Cause
}

// ErrBodyTooLarge indicates the request body exceeded the configured limit
type ErrBodyTooLarge struct {
	Limit int64
}

func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		malformed *ErrMalformedBody
		tooLarge  *ErrBodyTooLarge
		invalid   *types.ValidationError
		schemaErr *schemas.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &malformed), errors.As(err, &invalid), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the message shown to the client for err.
// Internal failures never leak their cause.
func errorMessage(err error) string {
	var (
		invalid   *types.ValidationError
		schemaErr *schemas.ValidationError
	)

	switch HTTPStatus(err) {
	case http.StatusRequestEntityTooLarge:
		return msgBodyTooLarge
	case http.StatusGatewayTimeout:
		return msgTimeout
	case http.StatusBadRequest:
		if errors.As(err, &invalid) {
			return invalid.Message
		}
		if errors.As(err, &schemaErr) {
			return "Invalid request: " + schemaErr.First()
		}
		return msgInvalidJSON
	default:
		return msgGenerationFailed
	}
}
