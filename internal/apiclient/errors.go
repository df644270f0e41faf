package apiclient

import (
	"errors"
	"fmt"
)

var (
	ErrTransport    = errors.New("transport failure")
	ErrTimeout      = errors.New("request timed out")
	ErrHTTP         = errors.New("http failure status")
	ErrParse        = errors.New("response parse failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRequest      = errors.New("invalid request")
)

const (
	MsgTimeout          = "Request timed out"
	MsgRetriesExhausted = "Network error - all retries failed"
)

type Kind string

const (
	KindTransport    Kind = "transport"
	KindTimeout      Kind = "timeout"
	KindHTTP         Kind = "http"
	KindParse        Kind = "parse"
	KindUnauthorized Kind = "unauthorized"
	KindRequest      Kind = "request"
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindTimeout:
		return ErrTimeout
	case KindHTTP:
		return ErrHTTP
	case KindParse:
		return ErrParse
	case KindUnauthorized:
		return ErrUnauthorized
	case KindRequest:
		return ErrRequest
	default:
		return nil
	}
}

// ErrorInfo is the normalized description of a failed logical call.
// Only Message is part of the wire shape, the rest is diagnostics.
type ErrorInfo struct {
	Message    string `json:"message"`
	Kind       Kind   `json:"-"`
	StatusCode int    `json:"-"`
	Attempts   int    `json:"-"`

	cause error
}

func newErrorInfo(kind Kind, message string, cause error) *ErrorInfo {
	return &ErrorInfo{
		Kind:    kind,
		Message: message,
		cause:   cause,
	}
}

func (e *ErrorInfo) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ErrorInfo) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}
