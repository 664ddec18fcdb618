// Package resilience provides error classification and class-aware retry
// with exponential backoff for outbound model and search calls.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorClass partitions provider failures by how they should be retried.
type ErrorClass int

const (
	// ClassNone means no error occurred.
	ClassNone ErrorClass = iota
	// ClassRateLimit is a 429-style quota rejection.
	ClassRateLimit
	// ClassServer is a 5xx-style provider-side failure.
	ClassServer
	// ClassPermanent is any other failure; never retried.
	ClassPermanent
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassRateLimit:
		return "rate_limit"
	case ClassServer:
		return "server_error"
	default:
		return "permanent"
	}
}

// ClassifiedError carries an HTTP-level classification attached by the
// client layer, so retry decisions do not depend on message sniffing.
type ClassifiedError struct {
	Err        error
	Class      ErrorClass
	StatusCode int
}

func (e *ClassifiedError) Error() string { return e.Err.Error() }

func (e *ClassifiedError) Unwrap() error { return e.Err }

// NewClassifiedError wraps err with the class implied by statusCode.
func NewClassifiedError(err error, statusCode int) *ClassifiedError {
	return &ClassifiedError{Err: err, Class: ClassifyStatus(statusCode), StatusCode: statusCode}
}

// ClassifyStatus maps an HTTP status code to an error class.
func ClassifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == 429:
		return ClassRateLimit
	case statusCode == 408 || (statusCode >= 500 && statusCode <= 599):
		return ClassServer
	default:
		return ClassPermanent
	}
}

// Classify determines the error class for err. A ClassifiedError anywhere in
// the chain wins; network-level transport failures count as server-class.
// String heuristics are the last resort, for wrapped errors from clients
// that expose no status code.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassServer
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return ClassServer
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{"429", "rate limit", "quota", "too many requests"} {
		if strings.Contains(msg, p) {
			return ClassRateLimit
		}
	}
	for _, p := range []string{
		"500",
		"internal server error",
		"connection reset by peer",
		"broken pipe",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return ClassServer
		}
	}

	return ClassPermanent
}

// TransientServiceError reports that a retryable failure persisted through
// every attempt. It carries the original error and the attempt count.
type TransientServiceError struct {
	Err      error
	Class    ErrorClass
	Attempts int
}

func (e *TransientServiceError) Error() string {
	return fmt.Sprintf("service unavailable after %d attempts (%s): %v", e.Attempts, e.Class, e.Err)
}

func (e *TransientServiceError) Unwrap() error { return e.Err }

// IsTransientServiceError reports whether err wraps a TransientServiceError.
func IsTransientServiceError(err error) bool {
	var te *TransientServiceError
	return errors.As(err, &te)
}
