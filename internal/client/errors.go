package client

import (
	"errors"
	"fmt"
)

// ErrGenerationFailed is the single failure category reported by the remote
// generator. Every error it returns matches this with errors.Is.
var ErrGenerationFailed = errors.New("failed to generate guidance")

// StatusError reports a non-2xx response from the guidance service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func generationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
