package network

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/server"
)

func fastVerification() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 2 * time.Millisecond,
	}
}

func TestDefaultVerificationOptions(t *testing.T) {
	opts := DefaultVerificationOptions()

	if opts.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", opts.MaxRetries)
	}
	if opts.InitialDelay != 200*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 200ms", opts.InitialDelay)
	}
	if opts.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", opts.RetryDelay)
	}
	if opts.MaxRetryDelay != 5*time.Second {
		t.Errorf("MaxRetryDelay = %v, want 5s", opts.MaxRetryDelay)
	}
}

func TestVerifyConnection_Success(t *testing.T) {
	env := newTestEnv(t, testFixture)

	expected := Connection{ID: "eth0", Interface: "eth0", Method4: MethodAuto, Method6: MethodAuto, Status: StatusUp}
	result := env.client.VerifyConnection(context.Background(), expected, fastVerification())

	if !result.Success {
		t.Fatalf("VerifyConnection() failed: %v", result.Error)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Actual == nil || result.Actual.ID != "eth0" {
		t.Errorf("Actual = %+v", result.Actual)
	}
}

func TestVerifyConnection_EmptySlicesMatchMissing(t *testing.T) {
	env := newTestEnv(t, testFixture)

	expected := Connection{ID: "eth0", Interface: "eth0", Method4: MethodAuto, Method6: MethodAuto, Status: StatusUp, Nameservers: []string{}}
	result := env.client.VerifyConnection(context.Background(), expected, fastVerification())
	if !result.Success {
		t.Errorf("VerifyConnection() failed: %v", result.Error)
	}
}

func TestVerifyConnection_Mismatch(t *testing.T) {
	env := newTestEnv(t, testFixture)

	expected := Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, Status: StatusUp}
	result := env.client.VerifyConnection(context.Background(), expected, fastVerification())

	if result.Success {
		t.Fatal("VerifyConnection() succeeded, want mismatch")
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if !errors.Is(result.Error, errMismatch) {
		t.Errorf("Error = %v, want errMismatch", result.Error)
	}
	if !strings.Contains(result.Diff, "Method4") {
		t.Errorf("Diff does not mention Method4:\n%s", result.Diff)
	}
}

func TestVerifyConnection_RecoversFromReadError(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodGet, "network/connections/eth0", server.Fault{StatusCode: 503, Body: "busy", Times: 1})

	expected := Connection{ID: "eth0", Interface: "eth0", Method4: MethodAuto, Method6: MethodAuto, Status: StatusUp}
	result := env.client.VerifyConnection(context.Background(), expected, fastVerification())

	if !result.Success {
		t.Fatalf("VerifyConnection() failed: %v", result.Error)
	}
	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}
}

func TestVerifyConnection_ReadErrorPersists(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodGet, "network/connections/eth0", server.Fault{StatusCode: 503, Body: "busy"})

	result := env.client.VerifyConnection(context.Background(), Connection{ID: "eth0"}, fastVerification())
	if result.Success {
		t.Fatal("VerifyConnection() succeeded, want failure")
	}
	if !resource.IsServiceError(result.Error) {
		t.Errorf("Error = %v, want service error", result.Error)
	}
	if result.Actual != nil {
		t.Errorf("Actual = %+v, want nil", result.Actual)
	}
}

func TestVerifyConnection_CanceledContext(t *testing.T) {
	env := newTestEnv(t, testFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastVerification()
	opts.InitialDelay = time.Second
	result := env.client.VerifyConnection(ctx, Connection{ID: "eth0"}, opts)

	if result.Success || !errors.Is(result.Error, context.Canceled) {
		t.Errorf("result = %+v, want context.Canceled", result)
	}
	if result.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", result.Attempts)
	}
}

func TestUpdateAndVerify(t *testing.T) {
	env := newTestEnv(t, testFixture)

	conn, err := NewConnection("eth1", "eth1").SetStatic("192.168.1.10/24", "192.168.1.1").Up().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	result := env.client.UpdateAndVerify(context.Background(), conn, fastVerification())
	if !result.Success {
		t.Fatalf("UpdateAndVerify() failed: %v", result.Error)
	}
}

func TestUpdateAndVerify_UpdateFails(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodPut, "network/connections/eth0", server.Fault{StatusCode: 400, Body: "rejected"})

	result := env.client.UpdateAndVerify(context.Background(), Connection{ID: "eth0"}, fastVerification())
	if result.Success || result.Attempts != 0 {
		t.Errorf("result = %+v, want failure without verification", result)
	}
	if !resource.IsServiceError(result.Error) || !errors.Is(result.Error, ErrUpdateFailed) {
		t.Errorf("Error = %v, want a rejected update", result.Error)
	}
}
