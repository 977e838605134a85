package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jeffmahoney/agama/internal/httptransport"
	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/server"
)

const testFixture = `
data:
  network:
    devices:
      - {name: eth0, type: ethernet, state: activated}
      - {name: wlan0, type: wireless, state: disconnected}
    connections:
      - id: eth0
        interface: eth0
        method4: auto
        method6: auto
        status: up
`

// overrides lets a test replace the body of GET responses for a path, so the
// service appears to keep an old version of a record.
type overrides struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (o *overrides) set(path, body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies[path] = body
}

func (o *overrides) get(path string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	body, ok := o.bodies[path]
	return body, ok
}

type testEnv struct {
	client *Client
	srv    *server.Server
	stale  *overrides
}

func newTestEnv(t *testing.T, fixture string) *testEnv {
	t.Helper()

	f, err := server.ParseFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseFixture() error = %v", err)
	}
	store, err := server.NewStoreFromFixture(f)
	if err != nil {
		t.Fatalf("NewStoreFromFixture() error = %v", err)
	}
	srv, err := server.New(&server.Config{}, store)
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tr, err := httptransport.New(ts.URL + "/api")
	if err != nil {
		t.Fatalf("httptransport.New() error = %v", err)
	}

	stale := &overrides{bodies: map[string]string{}}
	wrapped := resource.TransportFunc(func(ctx context.Context, req *resource.Request) (*resource.Response, error) {
		if req.Method == http.MethodGet {
			if body, ok := stale.get(req.Path); ok {
				return &resource.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
			}
		}
		return tr.Do(ctx, req)
	})

	return &testEnv{client: NewClient(wrapped), srv: srv, stale: stale}
}

func TestClient_Devices(t *testing.T) {
	env := newTestEnv(t, testFixture)

	devices, err := env.client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	want := []Device{
		{Name: "eth0", Type: DeviceTypeEthernet, State: DeviceStateActivated},
		{Name: "wlan0", Type: DeviceTypeWireless, State: DeviceStateDisconnected},
	}
	if diff := cmp.Diff(want, devices); diff != "" {
		t.Errorf("Devices() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ConnectionsEmpty(t *testing.T) {
	env := newTestEnv(t, "")

	conns, err := env.client.Connections(context.Background())
	if err != nil {
		t.Fatalf("Connections() error = %v", err)
	}
	if conns == nil || len(conns) != 0 {
		t.Errorf("Connections() = %#v, want empty non-nil slice", conns)
	}
}

func TestClient_Connection(t *testing.T) {
	env := newTestEnv(t, testFixture)
	ctx := context.Background()

	conn, err := env.client.Connection(ctx, "eth0")
	if err != nil {
		t.Fatalf("Connection() error = %v", err)
	}
	if conn.Interface != "eth0" || conn.Method4 != MethodAuto || conn.Status != StatusUp {
		t.Errorf("Connection() = %+v", conn)
	}

	_, err = env.client.Connection(ctx, "missing")
	if !resource.IsNotFound(err) {
		t.Errorf("Connection(missing) error = %v, want not found", err)
	}
}

func TestClient_AddOrUpdateConnection(t *testing.T) {
	env := newTestEnv(t, testFixture)
	ctx := context.Background()

	tests := []struct {
		name    string
		conn    Connection
		outcome resource.UpsertOutcome
	}{
		{
			name:    "replaces existing",
			conn:    Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, Status: StatusUp},
			outcome: resource.Replaced,
		},
		{
			name:    "creates missing",
			conn:    Connection{ID: "wlan0", Interface: "wlan0", Method4: MethodAuto, Wireless: &WirelessSettings{SSID: "home", Security: "wpa-psk", Password: "secret123"}},
			outcome: resource.Created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := env.client.AddOrUpdateConnection(ctx, tt.conn)
			if err != nil {
				t.Fatalf("AddOrUpdateConnection() error = %v", err)
			}
			if outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.outcome)
			}
			got, err := env.client.Connection(ctx, tt.conn.ID)
			if err != nil {
				t.Fatalf("Connection() error = %v", err)
			}
			if diff := cmp.Diff(tt.conn, got, cmpOptions...); diff != "" {
				t.Errorf("stored connection mismatch (-want +got):\n%s", diff)
			}
		})
	}

	pending, _, _ := env.srv.Store().State(Root)
	if pending != 2 {
		t.Errorf("pending = %d, want 2", pending)
	}
}

func TestClient_Apply(t *testing.T) {
	env := newTestEnv(t, testFixture)
	ctx := context.Background()

	if _, err := env.client.AddOrUpdateConnection(ctx, Connection{ID: "eth0", Status: StatusDown}); err != nil {
		t.Fatalf("AddOrUpdateConnection() error = %v", err)
	}
	if err := env.client.Apply(ctx); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pending, generation, err := env.srv.Store().State(Root)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if pending != 0 || generation != 1 {
		t.Errorf("pending, generation = %d, %d, want 0, 1", pending, generation)
	}
}

func TestClient_ApplyFailure(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodPut, "network/system/apply", server.Fault{StatusCode: 500, Body: "cannot apply"})

	err := env.client.Apply(context.Background())
	se, ok := resource.AsServiceError(err)
	if !ok {
		t.Fatalf("Apply() error = %v, want *resource.ServiceError", err)
	}
	if se.Body != "cannot apply" {
		t.Errorf("Body = %q, want %q", se.Body, "cannot apply")
	}
}

func TestClient_State(t *testing.T) {
	env := newTestEnv(t, testFixture)

	state, err := env.client.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if len(state.Devices) != 2 || len(state.Connections) != 1 {
		t.Errorf("State() = %d devices, %d connections, want 2 and 1", len(state.Devices), len(state.Connections))
	}
}

func TestClient_StateFailure(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodGet, "network/devices", server.Fault{StatusCode: 503, Body: "busy"})

	if _, err := env.client.State(context.Background()); !resource.IsServiceError(err) {
		t.Errorf("State() error = %v, want service error", err)
	}
}

func TestClient_LookupConnection(t *testing.T) {
	env := newTestEnv(t, testFixture)
	ctx := context.Background()
	env.srv.InjectFault(http.MethodGet, "network/connections/broken", server.Fault{StatusCode: 500, Body: "boom"})

	tests := []struct {
		id      string
		state   resource.LookupState
		wantErr bool
	}{
		{"eth0", resource.Found, false},
		{"missing", resource.NotFound, false},
		{"broken", resource.Failed, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, state, err := env.client.LookupConnection(ctx, tt.id)
			if state != tt.state {
				t.Errorf("state = %v, want %v", state, tt.state)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
