// Package errors provides structured error handling for ballot.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the ballot CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitProvider = 3 // Wallet provider missing or refused
	ExitNotFound = 4 // Resource not found
	ExitNetwork  = 5 // Could not reach an allowed network
)

// BallotError is the structured error type for ballot.
type BallotError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message, shown to the user as-is
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *BallotError) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output
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

func (e *BallotError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for BallotError by comparing codes.
func (e *BallotError) Is(target error) bool {
	var t *BallotError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &BallotError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &BallotError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &BallotError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Wallet negotiation errors.
	ErrProviderMissing = &BallotError{
		Code:     "PROVIDER_MISSING",
		Message:  "MetaMask is not installed",
		ExitCode: ExitProvider,
	}

	ErrNetwork = &BallotError{
		Code:     "NETWORK_ERROR",
		Message:  "could not switch to an allowed network",
		ExitCode: ExitNetwork,
	}

	ErrNoAccounts = &BallotError{
		Code:     "NO_ACCOUNTS",
		Message:  "No accounts returned",
		ExitCode: ExitProvider,
	}

	ErrProviderRequest = &BallotError{
		Code:     "PROVIDER_REQUEST_FAILED",
		Message:  "wallet provider request failed",
		ExitCode: ExitProvider,
	}

	// Config-specific errors.
	ErrConfigInvalid = &BallotError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &BallotError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &BallotError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid format",
		ExitCode: ExitInput,
	}
)

// New creates a new BallotError with the given code and message.
func New(code, message string) *BallotError {
	return &BallotError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var be *BallotError
	if errors.As(err, &be) {
		return &BallotError{
			Code:       be.Code,
			Message:    fmt.Sprintf("%s: %s", msg, be.Message),
			Details:    be.Details,
			Suggestion: be.Suggestion,
			Cause:      err,
			ExitCode:   be.ExitCode,
		}
	}

	return &BallotError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithMessage returns a copy of a sentinel-derived error carrying a
// different user-facing message and an optional cause.
func WithMessage(err error, message string, cause error) error {
	if err == nil {
		return nil
	}

	var be *BallotError
	if errors.As(err, &be) {
		return &BallotError{
			Code:       be.Code,
			Message:    message,
			Details:    be.Details,
			Suggestion: be.Suggestion,
			Cause:      cause,
			ExitCode:   be.ExitCode,
		}
	}

	return &BallotError{
		Code:     "GENERAL_ERROR",
		Message:  message,
		Cause:    cause,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var be *BallotError
	if errors.As(err, &be) {
		return &BallotError{
			Code:       be.Code,
			Message:    be.Message,
			Details:    details,
			Suggestion: be.Suggestion,
			Cause:      be.Cause,
			ExitCode:   be.ExitCode,
		}
	}

	return &BallotError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var be *BallotError
	if errors.As(err, &be) {
		return &BallotError{
			Code:       be.Code,
			Message:    be.Message,
			Details:    be.Details,
			Suggestion: suggestion,
			Cause:      be.Cause,
			ExitCode:   be.ExitCode,
		}
	}

	return &BallotError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// UserMessage returns the text shown to a user in an alert. Structured
// errors contribute only their message; anything else contributes its
// Error() text, so provider-surfaced errors keep their original wording.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var be *BallotError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var be *BallotError
	if errors.As(err, &be) {
		return be.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var be *BallotError
	if errors.As(err, &be) {
		return be.Code
	}
	return "GENERAL_ERROR"
}
