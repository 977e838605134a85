package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/server"
)

const eth0JSON = `{"id":"eth0","interface":"eth0","method4":"auto","method6":"auto","status":"up"}`

func TestRollbackManager_SaveSnapshot(t *testing.T) {
	env := newTestEnv(t, testFixture)
	rm := NewRollbackManager(env.client)
	ctx := context.Background()

	snap, err := rm.SaveSnapshot(ctx, "eth0", "before static")
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if !snap.Existed || snap.Connection.Method4 != MethodAuto {
		t.Errorf("snapshot = %+v, want existing auto connection", snap)
	}
	if snap.Description != "before static" {
		t.Errorf("Description = %q", snap.Description)
	}

	missing, err := rm.SaveSnapshot(ctx, "eth9", "before create")
	if err != nil {
		t.Fatalf("SaveSnapshot(missing) error = %v", err)
	}
	if missing.Existed {
		t.Error("snapshot of a missing connection has Existed = true")
	}

	if got := rm.GetLatestSnapshot(); got != missing {
		t.Errorf("GetLatestSnapshot() = %+v, want the last one", got)
	}
	if n := len(rm.GetSnapshots()); n != 2 {
		t.Errorf("len(GetSnapshots()) = %d, want 2", n)
	}
}

func TestRollbackManager_SaveSnapshotLookupFails(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodGet, "network/connections/eth0", server.Fault{StatusCode: 500, Body: "boom"})
	rm := NewRollbackManager(env.client)

	if _, err := rm.SaveSnapshot(context.Background(), "eth0", "x"); err == nil {
		t.Fatal("SaveSnapshot() error = nil, want failure")
	}
	if rm.GetLatestSnapshot() != nil {
		t.Error("a snapshot was recorded for a failed lookup")
	}
}

func TestRollbackManager_SnapshotLimit(t *testing.T) {
	env := newTestEnv(t, testFixture)
	rm := NewRollbackManager(env.client)

	for i := 0; i < DefaultMaxSnapshots+3; i++ {
		if _, err := rm.SaveSnapshot(context.Background(), "eth0", fmt.Sprintf("snapshot %d", i)); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}

	snapshots := rm.GetSnapshots()
	if len(snapshots) != DefaultMaxSnapshots {
		t.Fatalf("len(snapshots) = %d, want %d", len(snapshots), DefaultMaxSnapshots)
	}
	if snapshots[0].Description != "snapshot 3" {
		t.Errorf("oldest snapshot = %q, want %q", snapshots[0].Description, "snapshot 3")
	}

	rm.ClearSnapshots()
	if len(rm.GetSnapshots()) != 0 {
		t.Error("ClearSnapshots() left snapshots behind")
	}
}

func TestRollbackManager_RollbackToLatestWithoutSnapshot(t *testing.T) {
	env := newTestEnv(t, testFixture)
	rm := NewRollbackManager(env.client)

	result := rm.RollbackToLatest(context.Background(), fastVerification())
	if !errors.Is(result.Error, ErrNoSnapshot) {
		t.Errorf("Error = %v, want ErrNoSnapshot", result.Error)
	}
}

func TestRollbackManager_SafeUpsertSuccess(t *testing.T) {
	env := newTestEnv(t, testFixture)
	rm := NewRollbackManager(env.client)

	conn := Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, Gateway4: "10.0.0.1", Status: StatusUp}
	result := rm.SafeUpsert(context.Background(), conn, fastVerification(), "static eth0")

	if !result.Success || result.RollbackAttempted {
		t.Fatalf("SafeUpsert() = %+v", result)
	}
	if !strings.Contains(result.String(), "Update succeeded") {
		t.Errorf("String() = %q", result.String())
	}
	if n := len(rm.GetSnapshots()); n != 1 {
		t.Errorf("len(snapshots) = %d, want 1", n)
	}
}

func TestRollbackManager_SafeUpsertRollsBack(t *testing.T) {
	env := newTestEnv(t, testFixture)
	// Reads keep returning the original connection, so the update never verifies.
	env.stale.set("network/connections/eth0", eth0JSON)
	rm := NewRollbackManager(env.client)
	ctx := context.Background()

	conn := Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, Status: StatusUp}
	result := rm.SafeUpsert(ctx, conn, fastVerification(), "static eth0")

	if result.Success {
		t.Fatal("SafeUpsert() succeeded, want verification failure")
	}
	if !result.RollbackAttempted || !result.RollbackSucceeded {
		t.Fatalf("rollback attempted=%v succeeded=%v: %v", result.RollbackAttempted, result.RollbackSucceeded, result.Error)
	}
	if !errors.Is(result.Error, errMismatch) {
		t.Errorf("Error = %v, want errMismatch", result.Error)
	}
	if !strings.Contains(result.String(), "rolled back") {
		t.Errorf("String() = %q", result.String())
	}

	body, err := env.srv.Store().Get(Root, "connections", "eth0")
	if err != nil {
		t.Fatalf("store Get() error = %v", err)
	}
	if !strings.Contains(string(body), `"method4":"auto"`) {
		t.Errorf("stored connection = %s, want the original restored", body)
	}
}

func TestRollbackManager_SafeUpsertRejectedCreate(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodPost, "network/connections", server.Fault{StatusCode: 422, Body: "invalid"})
	rm := NewRollbackManager(env.client)

	result := rm.SafeUpsert(context.Background(), Connection{ID: "eth9"}, fastVerification(), "new eth9")

	if result.Success || result.RollbackAttempted {
		t.Fatalf("SafeUpsert() = %+v, want failure without rollback", result)
	}
	if !errors.Is(result.Error, ErrUpdateFailed) || !resource.IsServiceError(result.Error) {
		t.Errorf("Error = %v, want a rejected update", result.Error)
	}
	if !strings.Contains(result.String(), "Update failed: new eth9") {
		t.Errorf("String() = %q", result.String())
	}
}

func TestRollbackManager_SafeUpsertRejectedReplaceSkipsRollback(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodPut, "network/connections/eth0", server.Fault{StatusCode: 400, Body: "rejected", Times: 1})
	rm := NewRollbackManager(env.client)

	result := rm.SafeUpsert(context.Background(), Connection{ID: "eth0", Status: StatusDown}, fastVerification(), "down")

	if result.Success || result.RollbackAttempted || result.RollbackResult != nil {
		t.Fatalf("SafeUpsert() = %+v, want failure without rollback", result)
	}
	// A restore would have been the first PUT to get past the one-shot fault.
	if pending, _, _ := env.srv.Store().State(Root); pending != 0 {
		t.Errorf("pending = %d, want 0", pending)
	}
}

func TestRollbackManager_RollbackToSnapshotCannotUndoCreate(t *testing.T) {
	env := newTestEnv(t, testFixture)
	rm := NewRollbackManager(env.client)

	result := rm.RollbackToSnapshot(context.Background(), &Snapshot{ID: "eth9"}, fastVerification())
	if result.Success || !errors.Is(result.Error, ErrCannotUndoCreate) {
		t.Errorf("RollbackToSnapshot() = %+v, want ErrCannotUndoCreate", result)
	}
}

func TestRollbackManager_SafeUpsertSnapshotFails(t *testing.T) {
	env := newTestEnv(t, testFixture)
	env.srv.InjectFault(http.MethodGet, "network/connections/eth0", server.Fault{StatusCode: 500, Body: "boom"})
	rm := NewRollbackManager(env.client)

	result := rm.SafeUpsert(context.Background(), Connection{ID: "eth0", Status: StatusDown}, fastVerification(), "down")
	if result.Success || result.UpdateResult != nil || result.RollbackAttempted {
		t.Fatalf("SafeUpsert() = %+v, want failure before writing", result)
	}
	if pending, _, _ := env.srv.Store().State(Root); pending != 0 {
		t.Errorf("pending = %d, want 0", pending)
	}
}

func TestPromptBeforeDestructive(t *testing.T) {
	current := &Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, Status: StatusUp}

	tests := []struct {
		name    string
		current *Connection
		update  Connection
		want    []string
	}{
		{
			name:    "harmless",
			current: current,
			update:  Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.3/24"}},
		},
		{
			name:    "brought down",
			current: current,
			update:  Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Status: StatusDown},
			want:    []string{"brought down"},
		},
		{
			name:    "static removed and moved",
			current: current,
			update:  Connection{ID: "eth0", Interface: "eth1", Method4: MethodAuto},
			want:    []string{"Static IPv4", "moves from eth0 to eth1"},
		},
		{
			name:   "open wireless",
			update: Connection{ID: "wlan0", Method4: MethodAuto, Wireless: &WirelessSettings{SSID: "cafe", Security: "none"}},
			want:   []string{"open network"},
		},
		{
			name:   "no ip configuration",
			update: Connection{ID: "eth0", Method4: MethodDisabled},
			want:   []string{"no IP configuration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := PromptBeforeDestructive(tt.current, tt.update)
			if len(tt.want) == 0 {
				if msg != "" {
					t.Errorf("PromptBeforeDestructive() = %q, want empty", msg)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("message does not contain %q:\n%s", w, msg)
				}
			}
		})
	}
}
