package resource

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/logging"
)

// DefaultApplyPath is the commit endpoint below a service root.
const DefaultApplyPath = "apply"

// Service is an immutable handle on one root of the configuration service
// (e.g. "network" or "software"). It carries the transport shared by every
// collection client of that root and owns the apply operation.
//
// A Service holds no mutable state and is safe for concurrent use.
type Service struct {
	transport Transport
	root      string
	applyPath string
	codec     Codec
	logger    *zap.Logger
}

// ServiceOption is a functional option for configuring a Service
type ServiceOption func(*Service)

// WithApplyPath overrides the commit path below the root (default "apply")
func WithApplyPath(path string) ServiceOption {
	return func(s *Service) {
		s.applyPath = strings.Trim(path, "/")
	}
}

// WithCodec sets the codec used for request and response bodies
func WithCodec(codec Codec) ServiceOption {
	return func(s *Service) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger used for debug traces
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service for the given root path.
func NewService(transport Transport, root string, opts ...ServiceOption) *Service {
	s := &Service{
		transport: transport,
		root:      strings.Trim(root, "/"),
		applyPath: DefaultApplyPath,
		codec:     JSONCodec{},
		logger:    logging.Named("resource"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the root path of the service
func (s *Service) Root() string {
	return s.root
}

// Apply commits the changes accumulated by previous create and replace calls.
// Repeated calls are passed through unchanged; whether they are idempotent is
// up to the service.
func (s *Service) Apply(ctx context.Context) error {
	const op = "apply"
	path := joinPath(s.root, s.applyPath)

	resp, err := s.do(ctx, op, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return newServiceError(op, http.MethodPut, path, resp)
	}

	s.logger.Debug("Changes applied", zap.String("root", s.root))
	return nil
}

// do runs one request through the transport. Failures to obtain a response
// come back as *TransportError; the response status is left to the caller.
func (s *Service) do(ctx context.Context, op, method, path string, body []byte) (*Response, error) {
	req := &Request{
		Method: method,
		Path:   path,
		Body:   body,
	}
	if len(body) > 0 {
		req.Headers = map[string]string{"Content-Type": s.codec.ContentType()}
	}

	resp, err := s.transport.Do(ctx, req)
	if err != nil {
		return nil, ClassifyTransportError(op, method, path, err)
	}
	if resp == nil {
		return nil, ClassifyTransportError(op, method, path, errNoResponse)
	}
	return resp, nil
}

func newServiceError(op, method, path string, resp *Response) *ServiceError {
	return &ServiceError{
		Op:         op,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}
