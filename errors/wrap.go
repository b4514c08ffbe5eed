package errors

import (
	"errors"
)

// IsCode reports whether err is (or wraps) a SwapError with the given code.
func IsCode(err error, code Code) bool {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal when err is not a
// SwapError.
func CodeOf(err error) Code {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr.Code
	}
	return CodeInternal
}

// AsSwapError unwraps err into a SwapError, wrapping unknown errors as
// CodeInternal so every surfaced error carries a code.
func AsSwapError(err error) *SwapError {
	if err == nil {
		return nil
	}
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr
	}
	return New(CodeInternal, err.Error()).WithCause(err)
}

// Database wraps a storage failure.
func Database(cause error, message string) *SwapError {
	return New(CodeDatabase, message).WithCause(cause)
}
