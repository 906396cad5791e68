package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardErrorMessage(t *testing.T) {
	err := &ShardError{
		Code:    "TEST",
		Message: "something broke",
		Details: map[string]string{"b": "2", "a": "1"},
	}
	// Details render sorted by key.
	assert.Equal(t, "something broke (a: 1) (b: 2)", err.Error())
}

func TestWrapPreservesCodeAndExit(t *testing.T) {
	wrapped := Wrap(ErrSecretNotFound, "loading %q", "backup")
	require.Error(t, wrapped)

	var se *ShardError
	require.True(t, As(wrapped, &se))
	assert.Equal(t, "SECRET_NOT_FOUND", se.Code)
	assert.Equal(t, ExitNotFound, se.ExitCode)
	assert.Contains(t, se.Message, `loading "backup"`)
	assert.True(t, Is(wrapped, ErrSecretNotFound))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, WithDetails(nil, nil))
	assert.NoError(t, WithSuggestion(nil, "ignored"))
}

func TestWrapPlainError(t *testing.T) {
	plain := stderrors.New("disk on fire")
	wrapped := Wrap(plain, "saving shares")

	var se *ShardError
	require.True(t, As(wrapped, &se))
	assert.Equal(t, "GENERAL_ERROR", se.Code)
	assert.True(t, stderrors.Is(wrapped, plain))
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrInsufficientShares, "provide at least k shares")

	var se *ShardError
	require.True(t, As(err, &se))
	assert.Equal(t, "provide at least k shares", se.Suggestion)
	assert.Equal(t, "INSUFFICIENT_SHARES", se.Code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitInput, ExitCode(ErrInvalidThreshold))
	assert.Equal(t, ExitAuth, ExitCode(ErrRateLimited))
	assert.Equal(t, ExitGeneral, ExitCode(stderrors.New("plain")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "LABEL_EXISTS", Code(ErrLabelExists))
	assert.Equal(t, "GENERAL_ERROR", Code(stderrors.New("plain")))
}
