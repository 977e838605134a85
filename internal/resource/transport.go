package resource

import (
	"context"
	"net/http"
)

// Transport executes a single request against the configuration service.
//
// Implementations return an error only when no HTTP response was obtained
// (network failure, timeout, cancellation). Any response, whatever its status,
// is returned with a nil error so the client can classify it.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request is a request relative to the transport's base URL.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT)
	Method string
	// Path is the escaped path below the base URL, without a leading slash
	Path string
	// Headers are extra headers for this request
	Headers map[string]string
	// Body is the encoded request payload (for POST and PUT)
	Body []byte
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// IsSuccess returns true for any 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsOK returns true only for 200
func (r *Response) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Do implements Transport
func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
