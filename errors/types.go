// Package errors defines the error taxonomy for the HTLC ledger. Every
// rejection of a swap operation carries a Code so callers (and the
// cross-chain orchestrator) can react without parsing messages.
package errors

import (
	"fmt"
)

// Code classifies swap errors.
type Code string

const (
	// CodeNotFound indicates an unknown swap id.
	CodeNotFound Code = "NOT_FOUND"

	// CodeInvalidState indicates the operation is not legal for the swap's
	// current state (e.g. withdraw on a refunded swap).
	CodeInvalidState Code = "INVALID_STATE"

	// CodeUnauthorized indicates a caller/party mismatch.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeExpired indicates the deadline has passed for an action that
	// required the active period.
	CodeExpired Code = "EXPIRED"

	// CodeNotYetExpired indicates the deadline has not been reached for an
	// action that required expiry.
	CodeNotYetExpired Code = "NOT_YET_EXPIRED"

	// CodeInvalidSecret indicates the claimed secret does not hash to the
	// recorded commitment.
	CodeInvalidSecret Code = "INVALID_SECRET"

	// CodeDuplicateCommitment indicates the hash commitment is already bound.
	CodeDuplicateCommitment Code = "DUPLICATE_COMMITMENT"

	// CodeUnsupportedAsset indicates the asset is not on the allowlist.
	CodeUnsupportedAsset Code = "UNSUPPORTED_ASSET"

	// CodeInvalidAmount indicates a zero or otherwise unusable amount.
	CodeInvalidAmount Code = "INVALID_AMOUNT"

	// CodeInvalidParams indicates malformed inputs (bad commitment format,
	// unparseable receipt params, bad deadline).
	CodeInvalidParams Code = "INVALID_PARAMS"

	// CodeDatabase indicates a storage failure.
	CodeDatabase Code = "DATABASE"

	// CodeInternal indicates an internal invariant violation.
	CodeInternal Code = "INTERNAL"
)

// Severity represents the severity level of an error.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SwapError is the error type returned by every swap operation. Domain
// rejections are total: they imply no state change and no fund movement.
type SwapError struct {
	Code     Code           `json:"code"`
	Message  string         `json:"message"`
	SwapID   string         `json:"swap_id,omitempty"`
	Severity Severity       `json:"severity"`
	Cause    error          `json:"-"`
	Context  map[string]any `json:"context,omitempty"`
}

// New creates a SwapError with the default severity for its code.
func New(code Code, message string) *SwapError {
	return &SwapError{
		Code:     code,
		Message:  message,
		Severity: determineSeverity(code),
	}
}

// Newf creates a SwapError with a formatted message.
func Newf(code Code, format string, args ...any) *SwapError {
	return New(code, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *SwapError) Error() string {
	if e.SwapID != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.SwapID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SwapError) Unwrap() error {
	return e.Cause
}

// WithSwap attaches the swap id the error refers to.
func (e *SwapError) WithSwap(id string) *SwapError {
	e.SwapID = id
	return e
}

// WithCause attaches an underlying cause.
func (e *SwapError) WithCause(cause error) *SwapError {
	e.Cause = cause
	return e
}

// WithContext adds a key/value pair of diagnostic context.
func (e *SwapError) WithContext(key string, value any) *SwapError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsRejection reports whether the error is a clean domain rejection, as
// opposed to an infrastructure failure. Rejections are safe to surface to
// callers verbatim and are idempotent against unchanged state.
func (e *SwapError) IsRejection() bool {
	switch e.Code {
	case CodeDatabase, CodeInternal:
		return false
	default:
		return true
	}
}

func determineSeverity(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeDatabase:
		return SeverityHigh
	case CodeInvalidSecret, CodeUnauthorized:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
