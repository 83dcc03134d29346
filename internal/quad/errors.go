package quad

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes quadrature errors.
type ErrorCode string

const (
	// ErrCodeInvalidSubdivision indicates N is not acceptable for the rule.
	ErrCodeInvalidSubdivision ErrorCode = "INVALID_SUBDIVISION_COUNT"

	// ErrCodeInvalidInterval indicates a > b or a non-finite bound.
	ErrCodeInvalidInterval ErrorCode = "INVALID_INTERVAL"

	// ErrCodeDomain indicates the integrand is undefined at a sample point.
	ErrCodeDomain ErrorCode = "DOMAIN_ERROR"

	// ErrCodeInvalidMethod indicates an unknown rule or Riemann kind.
	ErrCodeInvalidMethod ErrorCode = "INVALID_METHOD"
)

// Error is returned by every rule in this package.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Method is the rule that failed, if known.
	Method Method

	// N is the requested subdivision count.
	N int

	// X is the sample point for DOMAIN_ERROR.
	X float64
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code == ErrCodeDomain && e.Method != "":
		return fmt.Sprintf("%s: %s (method=%s, x=%g)", e.Code, e.Message, e.Method, e.X)
	case e.Code == ErrCodeDomain:
		return fmt.Sprintf("%s: %s (x=%g)", e.Code, e.Message, e.X)
	case e.Code == ErrCodeInvalidSubdivision && e.Method != "":
		return fmt.Sprintf("%s: %s (method=%s, n=%d)", e.Code, e.Message, e.Method, e.N)
	case e.Method != "":
		return fmt.Sprintf("%s: %s (method=%s)", e.Code, e.Message, e.Method)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSubdivisionError reports whether err is an invalid subdivision count.
func IsSubdivisionError(err error) bool {
	return hasCode(err, ErrCodeInvalidSubdivision)
}

// IsIntervalError reports whether err is an invalid interval.
func IsIntervalError(err error) bool {
	return hasCode(err, ErrCodeInvalidInterval)
}

// IsDomainError reports whether err is a non-finite integrand sample.
func IsDomainError(err error) bool {
	return hasCode(err, ErrCodeDomain)
}

// CodeOf returns the error code carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

func newSubdivisionError(m Method, n int, msg string) *Error {
	return &Error{
		Code:    ErrCodeInvalidSubdivision,
		Message: msg,
		Method:  m,
		N:       n,
	}
}

func newDomainError(x, y float64) *Error {
	return &Error{
		Code:    ErrCodeDomain,
		Message: fmt.Sprintf("integrand is not finite at sample point (f=%v)", y),
		X:       x,
	}
}
