package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cmpOptions treats nil and empty slices as equal; the service drops empty
// lists when it echoes a connection back.
var cmpOptions = []cmp.Option{cmpopts.EquateEmpty()}

// VerificationOptions configures how a written connection is re-read
type VerificationOptions struct {
	// MaxRetries is the number of re-reads after the first one
	// Default: 3
	MaxRetries int

	// InitialDelay is waited before the first read
	// Default: 200ms
	InitialDelay time.Duration

	// RetryDelay is the first delay between reads; it doubles up to MaxRetryDelay
	// Default: 500ms
	RetryDelay time.Duration

	// MaxRetryDelay caps the delay between reads
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns the defaults used when nil options are passed
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:    3,
		InitialDelay:  200 * time.Millisecond,
		RetryDelay:    500 * time.Millisecond,
		MaxRetryDelay: 5 * time.Second,
	}
}

// VerificationResult contains the outcome of a verification
type VerificationResult struct {
	// Success is set when the service returned the expected connection
	Success bool

	// Attempts is the number of reads made
	Attempts int

	// Actual is the last connection read from the service, nil if none was read
	Actual *Connection

	// Diff is the go-cmp diff (expected -> actual) of the last read
	Diff string

	// Error is the reason verification failed
	Error error
}

var errMismatch = errors.New("connection differs from the expected one")

// ErrUpdateFailed marks a VerificationResult whose write was rejected, so
// nothing reached the service and nothing was verified.
var ErrUpdateFailed = errors.New("update failed")

// VerifyConnection re-reads expected.ID until the service returns a connection
// equal to expected or the retries are exhausted.
func (c *Client) VerifyConnection(ctx context.Context, expected Connection, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}
	result := &VerificationResult{}

	if opts.InitialDelay > 0 {
		timer := time.NewTimer(opts.InitialDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			result.Error = ctx.Err()
			return result
		case <-timer.C:
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = opts.RetryDelay
	policy.MaxInterval = opts.MaxRetryDelay
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0
	policy.Reset()

	var lastErr error
	op := func() error {
		result.Attempts++
		actual, err := c.connections.Get(ctx, expected.ID)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: failed to read connection: %w", result.Attempts, err)
			return lastErr
		}
		result.Actual = &actual
		result.Diff = cmp.Diff(expected, actual, cmpOptions...)
		if result.Diff != "" {
			lastErr = errMismatch
			return lastErr
		}
		return nil
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxRetries)), ctx))
	if err == nil {
		result.Success = true
		return result
	}

	if ctx.Err() != nil && lastErr == nil {
		result.Error = ctx.Err()
		return result
	}
	if errors.Is(lastErr, errMismatch) {
		result.Error = fmt.Errorf("verification failed after %d attempts: %w\n%s", result.Attempts, errMismatch, result.Diff)
		return result
	}
	result.Error = lastErr
	return result
}

// UpdateAndVerify upserts conn and verifies that the service stored it
func (c *Client) UpdateAndVerify(ctx context.Context, conn Connection, opts *VerificationOptions) *VerificationResult {
	if _, err := c.AddOrUpdateConnection(ctx, conn); err != nil {
		return &VerificationResult{Error: fmt.Errorf("%w: %w", ErrUpdateFailed, err)}
	}
	return c.VerifyConnection(ctx, conn, opts)
}
