package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/repository"
)

// ErrInvalidLimit indicates a negative row limit.
var ErrInvalidLimit = errors.New("limit must not be negative")

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, tac.ErrSchemaMismatch):
		return &APIError{Code: "SCHEMA_MISMATCH", Message: err.Error(), RecoveryHint: "Check the published sheet columns", cause: err}
	case errors.Is(err, repository.ErrMalformed):
		return &APIError{Code: "MALFORMED_DATASET", Message: err.Error(), RecoveryHint: "Check the published sheet is CSV", cause: err}
	case errors.Is(err, repository.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Code: "SOURCE_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Retry with refresh=true", cause: err}
	case errors.Is(err, ErrInvalidLimit), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), cause: err}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
