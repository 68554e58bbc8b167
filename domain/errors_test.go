package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDomainErrorMatchesCode(t *testing.T) {
	assert.True(t, IsDomainError(ErrTaskNotFound, ErrCodeNotFound))
	assert.False(t, IsDomainError(ErrTaskNotFound, ErrCodeInvalid))
	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeInternal))
}

func TestIsDomainErrorSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrUnidentified)
	assert.True(t, IsDomainError(wrapped, ErrCodeUnauthorized))
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrCodeUnavailable, "task store unavailable", cause)

	require.ErrorIs(t, err, cause)
	assert.True(t, IsDomainError(err, ErrCodeUnavailable))
	assert.Contains(t, err.Error(), "connection refused")
}
