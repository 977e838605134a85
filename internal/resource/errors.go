package resource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrEmptyID is returned when an operation needs a resource id and got none.
var ErrEmptyID = errors.New("resource id is empty")

var errNoResponse = errors.New("transport returned no response")

// NetworkErrorSubtype provides more specific transport error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorCanceled
)

// String returns a human-readable name for the subtype
func (s NetworkErrorSubtype) String() string {
	switch s {
	case NetworkErrorGeneral:
		return "network error"
	case NetworkErrorTimeout:
		return "timeout"
	case NetworkErrorConnectionRefused:
		return "connection refused"
	case NetworkErrorDNS:
		return "DNS error"
	case NetworkErrorHostUnreachable:
		return "host unreachable"
	case NetworkErrorNetworkUnreachable:
		return "network unreachable"
	case NetworkErrorCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("NetworkErrorSubtype(%d)", int(s))
	}
}

// TransportError reports that no response was obtained from the service:
// network failure, timeout, refused connection or cancellation.
type TransportError struct {
	Op      string              // Client operation (list, get, create, replace, apply)
	Method  string              // HTTP method
	Path    string              // Request path relative to the base URL
	Subtype NetworkErrorSubtype // More specific classification
	Err     error               // Underlying error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s %s: %s: %v", e.Op, e.Method, e.Path, e.Subtype, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the same request may succeed.
func (e *TransportError) Retryable() bool {
	switch e.Subtype {
	case NetworkErrorDNS, NetworkErrorCanceled:
		return false
	default:
		return true
	}
}

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op   string
	Path string
	Body []byte // Raw body that failed to decode
	Err  error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: cannot decode response: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success status returned by the service.
// Body holds the raw response text exactly as the server sent it.
type ServiceError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s %s: service returned %d", e.Op, e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s %s: service returned %d: %s", e.Op, e.Method, e.Path, e.StatusCode, e.Body)
}

// Diagnostic returns the server-supplied response body verbatim.
func (e *ServiceError) Diagnostic() string {
	return e.Body
}

// NotFound reports whether the service answered 404.
func (e *ServiceError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Conflict reports whether the service answered 409.
func (e *ServiceError) Conflict() bool {
	return e.StatusCode == http.StatusConflict
}

// ClassifyTransportError wraps err into a TransportError with a specific subtype.
// An err that already is a TransportError keeps its classification and gains
// the operation context when missing.
func ClassifyTransportError(op, method, path string, err error) *TransportError {
	if err == nil {
		return nil
	}

	var existing *TransportError
	if errors.As(err, &existing) {
		classified := *existing
		if classified.Op == "" {
			classified.Op = op
		}
		if classified.Method == "" {
			classified.Method = method
		}
		if classified.Path == "" {
			classified.Path = path
		}
		return &classified
	}

	return &TransportError{
		Op:      op,
		Method:  method,
		Path:    path,
		Subtype: classifyNetworkError(err),
		Err:     err,
	}
}

func classifyNetworkError(err error) NetworkErrorSubtype {
	if errors.Is(err, context.Canceled) {
		return NetworkErrorCanceled
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return NetworkErrorTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return NetworkErrorTimeout
		}
		return NetworkErrorDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return NetworkErrorConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return NetworkErrorHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return NetworkErrorNetworkUnreachable
		}
		if opErr.Timeout() {
			return NetworkErrorTimeout
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return NetworkErrorTimeout
	}

	return NetworkErrorGeneral
}

// IsTransportError checks if an error is a TransportError
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsDecodeError checks if an error is a DecodeError
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsServiceError checks if an error is a ServiceError
func IsServiceError(err error) bool {
	var e *ServiceError
	return errors.As(err, &e)
}

// AsServiceError returns the ServiceError in err's chain, if any.
func AsServiceError(err error) (*ServiceError, bool) {
	var e *ServiceError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound checks if an error is a ServiceError with a 404 status
func IsNotFound(err error) bool {
	e, ok := AsServiceError(err)
	return ok && e.NotFound()
}

// IsConflict checks if an error is a ServiceError with a 409 status
func IsConflict(err error) bool {
	e, ok := AsServiceError(err)
	return ok && e.Conflict()
}
