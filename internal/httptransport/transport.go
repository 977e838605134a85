package httptransport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/resource"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultRetryDelay is the default delay before the first retry
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

var errRetryableStatus = errors.New("retryable status")

// Transport sends resource requests to the configuration service over HTTP.
// It implements resource.Transport and is safe for concurrent use.
type Transport struct {
	baseURL      string
	client       *http.Client
	headers      map[string]string
	username     string
	password     string
	attempts     int
	retryDelay   time.Duration
	maxDelay     time.Duration
	retryMethods map[string]bool
	limiter      *rate.Limiter
	metrics      *Metrics
	logger       *zap.Logger
}

// Option is a functional option for configuring a Transport
type Option func(*Transport)

// WithHTTPClient sets a custom http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		t.client.Timeout = timeout
	}
}

// WithBasicAuth sets HTTP Basic Auth credentials for every request
func WithBasicAuth(username, password string) Option {
	return func(t *Transport) {
		t.username = username
		t.password = password
	}
}

// WithHeader adds a default header to all requests
func WithHeader(key, value string) Option {
	return func(t *Transport) {
		t.headers[key] = value
	}
}

// WithRetry enables retries with exponential backoff. attempts counts the
// first try, so 1 disables retrying.
func WithRetry(attempts int, baseDelay, maxDelay time.Duration) Option {
	return func(t *Transport) {
		t.attempts = attempts
		if baseDelay > 0 {
			t.retryDelay = baseDelay
		}
		if maxDelay > 0 {
			t.maxDelay = maxDelay
		}
	}
}

// WithRetryMethods replaces the set of HTTP methods that may be retried
// (default: GET only). Retrying POST can create a record twice.
func WithRetryMethods(methods ...string) Option {
	return func(t *Transport) {
		t.retryMethods = make(map[string]bool, len(methods))
		for _, m := range methods {
			t.retryMethods[strings.ToUpper(m)] = true
		}
	}
}

// WithRateLimit paces outgoing requests to limit per second with the given burst
func WithRateLimit(limit float64, burst int) Option {
	return func(t *Transport) {
		if limit > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(limit), max(burst, 1))
		}
	}
}

// WithMetrics records request counts and durations
func WithMetrics(m *Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithLogger sets the logger used for request traces
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Transport for the service API rooted at baseURL
// (e.g. "http://localhost:3000/api").
func New(baseURL string, opts ...Option) (*Transport, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		baseURL:      normalized,
		client:       &http.Client{Timeout: DefaultTimeout},
		headers:      map[string]string{"Accept": "application/json"},
		attempts:     1,
		retryDelay:   DefaultRetryDelay,
		maxDelay:     DefaultMaxRetryDelay,
		retryMethods: map[string]bool{http.MethodGet: true},
		logger:       logging.Named("http"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// NormalizeBaseURL checks that raw is an absolute http(s) URL and strips the
// trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalized base URL
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Do implements resource.Transport. An error is returned only when no
// response was obtained; any status code, including 5xx after the last retry,
// comes back as a Response.
func (t *Transport) Do(ctx context.Context, req *resource.Request) (*resource.Response, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if t.attempts <= 1 || !t.retryMethods[req.Method] {
		return t.doOnce(ctx, req)
	}

	var resp *resource.Response
	attempt := 0
	operation := func() error {
		attempt++
		resp = nil

		r, err := t.doOnce(ctx, req)
		if err != nil {
			var te *resource.TransportError
			if errors.As(err, &te) && !te.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			return errRetryableStatus
		}
		return nil
	}
	notify := func(err error, delay time.Duration) {
		t.logger.Warn("Request failed, retrying",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", t.attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(t.newBackOff(), ctx), notify)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return nil, resource.ClassifyTransportError("", req.Method, req.Path, ctxErr)
	}
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

func (t *Transport) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryDelay
	b.MaxInterval = t.maxDelay
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(t.attempts-1))
}

// doOnce performs a single HTTP request without retry logic
func (t *Transport) doOnce(ctx context.Context, req *resource.Request) (*resource.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, resource.ClassifyTransportError("", req.Method, req.Path, err)
		}
	}

	target := t.baseURL + "/" + strings.TrimLeft(req.Path, "/")

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if t.username != "" {
		httpReq.SetBasicAuth(t.username, t.password)
	}

	logging.LogHTTPRequest(t.logger, req.Method, target, req.Body)
	start := time.Now()

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		t.metrics.observe(req.Method, 0, time.Since(start))
		return nil, resource.ClassifyTransportError("", req.Method, req.Path, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		t.metrics.observe(req.Method, 0, time.Since(start))
		return nil, resource.ClassifyTransportError("", req.Method, req.Path, err)
	}

	t.metrics.observe(req.Method, httpResp.StatusCode, time.Since(start))
	logging.LogHTTPResponse(t.logger, req.Method, target, httpResp.StatusCode, respBody)

	return &resource.Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}
