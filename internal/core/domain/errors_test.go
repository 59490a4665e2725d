package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrConfigurationMissing", ErrConfigurationMissing, "configuration missing"},
		{"ErrFetch", ErrFetch, "fetch failed"},
		{"ErrEmbedding", ErrEmbedding, "embedding failed"},
		{"ErrIndex", ErrIndex, "vector index operation failed"},
		{"ErrCompletion", ErrCompletion, "chat completion failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrInvalidProvider,
		ErrServiceUnavailable,
		ErrConfigurationMissing,
		ErrFetch,
		ErrEmbedding,
		ErrIndex,
		ErrCompletion,
		ErrLockNotAcquired,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrorsWrap(t *testing.T) {
	wrapped := fmt.Errorf("%w: status 404", ErrFetch)
	if !errors.Is(wrapped, ErrFetch) {
		t.Error("expected wrapped error to match ErrFetch")
	}
	if errors.Is(wrapped, ErrIndex) {
		t.Error("expected wrapped error not to match ErrIndex")
	}
}
