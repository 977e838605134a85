package resource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

// timeoutError implements net.Error with Timeout() = true
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantSubtype   NetworkErrorSubtype
		wantRetryable bool
	}{
		{
			name: "timeout",
			err: &url.Error{Op: "Get", URL: "http://localhost:3000", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: &timeoutError{},
			}},
			wantSubtype:   NetworkErrorTimeout,
			wantRetryable: true,
		},
		{
			name: "connection refused",
			err: &url.Error{Op: "Get", URL: "http://localhost:3000", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED,
			}},
			wantSubtype:   NetworkErrorConnectionRefused,
			wantRetryable: true,
		},
		{
			name: "host unreachable",
			err: &net.OpError{
				Op: "dial", Net: "tcp", Err: syscall.EHOSTUNREACH,
			},
			wantSubtype:   NetworkErrorHostUnreachable,
			wantRetryable: true,
		},
		{
			name: "network unreachable",
			err: &net.OpError{
				Op: "dial", Net: "tcp", Err: syscall.ENETUNREACH,
			},
			wantSubtype:   NetworkErrorNetworkUnreachable,
			wantRetryable: true,
		},
		{
			name:          "dns",
			err:           &net.DNSError{Err: "no such host", Name: "installer.local"},
			wantSubtype:   NetworkErrorDNS,
			wantRetryable: false,
		},
		{
			name:          "dns timeout",
			err:           &net.DNSError{Err: "timeout", Name: "installer.local", IsTimeout: true},
			wantSubtype:   NetworkErrorTimeout,
			wantRetryable: true,
		},
		{
			name:          "deadline",
			err:           fmt.Errorf("request: %w", context.DeadlineExceeded),
			wantSubtype:   NetworkErrorTimeout,
			wantRetryable: true,
		},
		{
			name:          "canceled",
			err:           context.Canceled,
			wantSubtype:   NetworkErrorCanceled,
			wantRetryable: false,
		},
		{
			name:          "other",
			err:           errors.New("unexpected EOF"),
			wantSubtype:   NetworkErrorGeneral,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := ClassifyTransportError("get", "GET", "network/connections/eth0", tt.err)
			if te == nil {
				t.Fatal("Expected TransportError, got nil")
			}
			if te.Subtype != tt.wantSubtype {
				t.Errorf("Subtype = %v, want %v", te.Subtype, tt.wantSubtype)
			}
			if te.Retryable() != tt.wantRetryable {
				t.Errorf("Retryable() = %v, want %v", te.Retryable(), tt.wantRetryable)
			}
			if !errors.Is(te, tt.err) {
				t.Error("TransportError should wrap the original error")
			}
		})
	}
}

func TestClassifyTransportError_Nil(t *testing.T) {
	if ClassifyTransportError("get", "GET", "x", nil) != nil {
		t.Error("ClassifyTransportError(nil) should return nil")
	}
}

func TestClassifyTransportError_KeepsExisting(t *testing.T) {
	inner := &TransportError{Subtype: NetworkErrorDNS, Err: errors.New("lookup failed")}
	wrapped := fmt.Errorf("retry gave up: %w", inner)

	te := ClassifyTransportError("list", "GET", "network/devices", wrapped)
	if te.Subtype != NetworkErrorDNS {
		t.Errorf("Subtype = %v, want %v", te.Subtype, NetworkErrorDNS)
	}
	if te.Op != "list" || te.Method != "GET" || te.Path != "network/devices" {
		t.Errorf("context not filled in: %+v", te)
	}
	if inner.Op != "" {
		t.Error("ClassifyTransportError must not modify the wrapped error")
	}
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{Op: "apply", Method: "PUT", Path: "network/system/apply", StatusCode: 500, Body: "conflict"}

	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "conflict") {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.NotFound() || err.Conflict() {
		t.Error("500 is neither not-found nor conflict")
	}

	wrapped := fmt.Errorf("saving: %w", err)
	se, ok := AsServiceError(wrapped)
	if !ok || se != err {
		t.Fatal("AsServiceError should find the wrapped error")
	}
	if IsTransportError(wrapped) || IsDecodeError(wrapped) {
		t.Error("a service error must not match other categories")
	}
}

func TestServiceError_EmptyBody(t *testing.T) {
	err := &ServiceError{Op: "get", Method: "GET", Path: "p", StatusCode: 404}
	if strings.HasSuffix(err.Error(), ": ") {
		t.Errorf("Error() = %q has trailing separator", err.Error())
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false for 404")
	}
	if !IsConflict(&ServiceError{StatusCode: 409}) {
		t.Error("IsConflict() = false for 409")
	}
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("invalid character")
	err := &DecodeError{Op: "list", Path: "network/devices", Body: []byte("<html>"), Err: cause}

	if !errors.Is(err, cause) {
		t.Error("DecodeError should unwrap to its cause")
	}
	if !IsDecodeError(fmt.Errorf("x: %w", err)) {
		t.Error("IsDecodeError() = false for wrapped error")
	}
}

func TestTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"refused", &TransportError{Subtype: NetworkErrorConnectionRefused}, "refused"},
		{"timeout", &TransportError{Subtype: NetworkErrorTimeout}, "--timeout"},
		{"dns", &TransportError{Subtype: NetworkErrorDNS}, "hostname"},
		{"decode", &DecodeError{Err: errors.New("x")}, "decoded"},
		{"not found", &ServiceError{StatusCode: 404}, "no such record"},
		{"server", &ServiceError{StatusCode: 500, Body: "conflict"}, "HTTP 500"},
		{"empty id", fmt.Errorf("upsert: %w", ErrEmptyID), "no id"},
		{"unknown", errors.New("x"), "error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TroubleshootingHint(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("TroubleshootingHint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ServiceError{StatusCode: 500, Body: "conflict\ndetails"}, "Service error 500: conflict"},
		{&ServiceError{StatusCode: 503}, "Service error 503"},
		{&TransportError{Subtype: NetworkErrorTimeout}, "Service not responding (timeout)"},
		{&DecodeError{Err: errors.New("x")}, "Unexpected response from service"},
		{errors.New("plain"), "plain"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := ShortMessage(tt.err); got != tt.want {
			t.Errorf("ShortMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
