// Package errors defines shardkey's error surface: a structured error
// type carrying a machine-readable code and process exit code, the
// sentinel values commands match against, and helpers that layer context,
// details, and user-facing suggestions onto an error chain.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Process exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitAuth       = 3 // Authentication failed
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied
)

// ShardError is what every shardkey command ultimately surfaces: a coded
// error the CLI can map to an exit status and render as text or JSON.
type ShardError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for the CLI
}

// Error renders the message with its details appended, then the cause.
func (e *ShardError) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output.
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the cause to errors.Is/errors.As chains.
func (e *ShardError) Unwrap() error {
	return e.Cause
}

// Is treats two ShardErrors as equal when their codes match, so wrapped
// and detailed variants still compare equal to their sentinel.
func (e *ShardError) Is(target error) bool {
	var t *ShardError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &ShardError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &ShardError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrAuthentication = &ShardError{
		Code:     "AUTHENTICATION_FAILED",
		Message:  "authentication failed",
		ExitCode: ExitAuth,
	}

	ErrNotFound = &ShardError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &ShardError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	// Split/recover errors.
	ErrInvalidThreshold = &ShardError{
		Code:     "INVALID_THRESHOLD",
		Message:  "invalid threshold",
		ExitCode: ExitInput,
	}

	ErrInvalidShare = &ShardError{
		Code:     "INVALID_SHARE",
		Message:  "share is malformed or inconsistent",
		ExitCode: ExitInput,
	}

	ErrInsufficientShares = &ShardError{
		Code:     "INSUFFICIENT_SHARES",
		Message:  "not enough shares to recover the secret",
		ExitCode: ExitInput,
	}

	ErrInvalidSeed = &ShardError{
		Code:     "INVALID_SEED",
		Message:  "seed must be 32 bytes of hex",
		ExitCode: ExitInput,
	}

	ErrEmptySecret = &ShardError{
		Code:     "EMPTY_SECRET",
		Message:  "secret cannot be empty",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &ShardError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	// Store errors.
	ErrLabelExists = &ShardError{
		Code:     "LABEL_EXISTS",
		Message:  "a secret with this label already exists",
		ExitCode: ExitInput,
	}

	ErrSecretNotFound = &ShardError{
		Code:     "SECRET_NOT_FOUND",
		Message:  "secret not found",
		ExitCode: ExitNotFound,
	}

	ErrUserExists = &ShardError{
		Code:     "USER_EXISTS",
		Message:  "a user with this email already exists",
		ExitCode: ExitInput,
	}

	ErrUserNotFound = &ShardError{
		Code:     "USER_NOT_FOUND",
		Message:  "user not found",
		ExitCode: ExitNotFound,
	}

	ErrRateLimited = &ShardError{
		Code:     "RATE_LIMITED",
		Message:  "too many authentication attempts",
		ExitCode: ExitAuth,
	}

	ErrDecryptionFailed = &ShardError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted data",
		ExitCode: ExitAuth,
	}

	// Config errors.
	ErrConfigNotFound = &ShardError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &ShardError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &ShardError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &ShardError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid format",
		ExitCode: ExitInput,
	}
)

// New builds a ShardError with the general exit code; callers adjust
// ExitCode when a more specific status applies.
func New(code, message string) *ShardError {
	return &ShardError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap prefixes err with formatted context. When err is already a
// ShardError its code, suggestion, and exit code ride along; anything else
// becomes a general error with err as the cause.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *ShardError
	if errors.As(err, &se) {
		return &ShardError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &ShardError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails returns a copy of err carrying key/value context for
// display; a plain error is promoted to a general ShardError first.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *ShardError
	if errors.As(err, &se) {
		return &ShardError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &ShardError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion returns a copy of err carrying a next-step hint shown
// under the error message.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *ShardError
	if errors.As(err, &se) {
		return &ShardError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &ShardError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode maps an error to the process exit status: 0 for nil, the
// embedded code for a ShardError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *ShardError
	if errors.As(err, &se) {
		return se.ExitCode
	}
	return ExitGeneral
}

// Code extracts the machine-readable code, defaulting to GENERAL_ERROR
// for plain errors.
func Code(err error) string {
	var se *ShardError
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Is re-exports errors.Is so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports errors.As so callers need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}
