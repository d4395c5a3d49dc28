package deezer

import (
	"errors"
	"fmt"
	"strings"

	"deezer/deezer/model"
)

// ValidationError is returned for bad caller input and malformed payloads.
type ValidationError = model.ValidationError

// ErrEmptyQuery is returned before any request when a search term is blank.
var ErrEmptyQuery = &ValidationError{Field: "query", Msg: "empty query"}

// CodeNoData is the catalog's error code for an unknown identifier.
const CodeNoData = 800

// APIError reports a failed exchange with the catalog API.
type APIError struct {
	Op         string    // Operation that failed, e.g. "search/track"
	Kind       ErrorKind // Type of error
	StatusCode int       // HTTP status, 0 for transport errors
	Code       int       // Catalog error code from the error envelope, if any
	Message    string    // Catalog error message, forwarded verbatim
	Err        error     // Underlying error
}

type ErrorKind int

const (
	ErrTransport ErrorKind = iota
	ErrStatus
	ErrUpstream
	ErrDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "transport"
	case ErrStatus:
		return "status"
	case ErrUpstream:
		return "upstream"
	case ErrDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s error", e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *APIError) Timeout() bool {
	if e.Kind != ErrTransport || e.Err == nil {
		return false
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// IsNotFound reports whether err is the catalog's answer for an unknown id.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNoData || apiErr.StatusCode == 404
}

// KindOf classifies err for caller-facing messages.
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return "validation"
	}
	return "internal"
}
