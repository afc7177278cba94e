package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidationFailedError("amount is required"), ErrValidation},
		{"conflict", NewConflictError("expense is not in progress"), ErrConflict},
		{"forbidden", NewForbiddenError("not the current approver"), ErrForbidden},
		{"not found", NewNotFoundError("expense not found"), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("decide: %w", NewConflictError("expense changed, re-fetch and retry"))
	assert.Equal(t, "expense changed, re-fetch and retry", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
