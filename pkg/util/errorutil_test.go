package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError_PassThrough(t *testing.T) {
	t.Parallel()

	original := NewConflict("email already registered", nil)
	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainError_WrappedDomainError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("workflow failed: %w", NewUnauthorized("invalid token"))
	mapped := ToDomainError(wrapped)
	assert.Equal(t, "UNAUTHORIZED", mapped.Code)
}

func TestToDomainError_NoRows(t *testing.T) {
	t.Parallel()

	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainError_DeadlineIsRetryable(t *testing.T) {
	t.Parallel()

	mapped := ToDomainError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, "UNAVAILABLE", mapped.Code)
	assert.Equal(t, http.StatusServiceUnavailable, mapped.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	t.Parallel()

	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	// Internal detail stays out of the client-facing message.
	assert.Equal(t, "internal server error", mapped.Message)
}

func TestValidationError_CarriesDetails(t *testing.T) {
	t.Parallel()

	err := NewValidationError("invalid registration data", map[string]any{"name": "too short"})
	mapped := ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Contains(t, mapped.Details, "name")
}
