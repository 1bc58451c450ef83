package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider error codes so callers never compare raw
// numeric codes.
type ErrorKind int

// Provider error kinds.
const (
	KindOther ErrorKind = iota
	KindUserRejected
	KindUnauthorized
	KindUnsupportedMethod
	KindDisconnected
	KindChainDisconnected
	KindUnrecognizedChain
)

// EIP-1193 and EIP-3085 error codes.
const (
	codeUserRejected      = 4001
	codeUnauthorized      = 4100
	codeUnsupportedMethod = 4200
	codeDisconnected      = 4900
	codeChainDisconnected = 4901
	codeUnrecognizedChain = 4902
)

// String returns a readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUserRejected:
		return "user_rejected"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnsupportedMethod:
		return "unsupported_method"
	case KindDisconnected:
		return "disconnected"
	case KindChainDisconnected:
		return "chain_disconnected"
	case KindUnrecognizedChain:
		return "unrecognized_chain"
	default:
		return "other"
	}
}

// Error is an error surfaced by the provider itself.
type Error struct {
	Code    int
	Message string
	Data    any
}

// NewError builds a provider error with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// UnrecognizedChain builds the error a provider returns when asked to
// switch to a chain it does not know.
func UnrecognizedChain(chainID string) *Error {
	return NewError(codeUnrecognizedChain, fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", chainID))
}

// UserRejected builds the error a provider returns when the user declines
// a prompt.
func UserRejected() *Error {
	return NewError(codeUserRejected, "User rejected the request.")
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error %d", e.Code)
	}
	return e.Message
}

// Kind returns the tagged classification of the error code.
func (e *Error) Kind() ErrorKind {
	switch e.Code {
	case codeUserRejected:
		return KindUserRejected
	case codeUnauthorized:
		return KindUnauthorized
	case codeUnsupportedMethod:
		return KindUnsupportedMethod
	case codeDisconnected:
		return KindDisconnected
	case codeChainDisconnected:
		return KindChainDisconnected
	case codeUnrecognizedChain:
		return KindUnrecognizedChain
	default:
		return KindOther
	}
}

// KindOf returns the kind of a provider error anywhere in err's chain, or
// KindOther.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind()
	}
	return KindOther
}

// IsUnrecognizedChain reports whether err says the requested chain is
// unknown to the provider.
func IsUnrecognizedChain(err error) bool {
	return KindOf(err) == KindUnrecognizedChain
}
