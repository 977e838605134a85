package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeffmahoney/agama/internal/resource"
)

// DefaultMaxSnapshots is the number of snapshots a RollbackManager retains
const DefaultMaxSnapshots = 10

// ErrNoSnapshot is returned when a rollback has nothing to restore
var ErrNoSnapshot = errors.New("no snapshot available for rollback")

// ErrCannotUndoCreate is returned when rolling back a connection that did not
// exist before the write; the service offers no delete operation.
var ErrCannotUndoCreate = errors.New("connection did not exist before the update and cannot be removed")

// Snapshot is the state of one connection before an update
type Snapshot struct {
	// ID of the connection
	ID string

	// Existed is false when the connection was missing at snapshot time
	Existed bool

	// Connection is the saved connection, only meaningful when Existed is set
	Connection Connection

	Timestamp   time.Time
	Description string
}

// RollbackManager keeps connection snapshots so updates can be undone
type RollbackManager struct {
	client *Client

	// snapshots are kept oldest first and capped at maxSnapshots
	snapshots    []*Snapshot
	maxSnapshots int

	mutex sync.RWMutex
}

// NewRollbackManager creates a rollback manager for a client
func NewRollbackManager(client *Client) *RollbackManager {
	return &RollbackManager{
		client:       client,
		snapshots:    make([]*Snapshot, 0, DefaultMaxSnapshots),
		maxSnapshots: DefaultMaxSnapshots,
	}
}

// SaveSnapshot records the current state of connection id. A missing
// connection is recorded too; only a failed lookup is an error.
func (rm *RollbackManager) SaveSnapshot(ctx context.Context, id, description string) (*Snapshot, error) {
	current, state, err := rm.client.LookupConnection(ctx, id)
	if state == resource.Failed {
		return nil, fmt.Errorf("failed to read connection %q for snapshot: %w", id, err)
	}

	snapshot := &Snapshot{
		ID:          id,
		Existed:     state == resource.Found,
		Connection:  current,
		Timestamp:   time.Now(),
		Description: description,
	}

	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	rm.snapshots = append(rm.snapshots, snapshot)
	if len(rm.snapshots) > rm.maxSnapshots {
		rm.snapshots = rm.snapshots[1:]
	}
	return snapshot, nil
}

// GetLatestSnapshot returns the most recent snapshot, or nil
func (rm *RollbackManager) GetLatestSnapshot() *Snapshot {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	if len(rm.snapshots) == 0 {
		return nil
	}
	return rm.snapshots[len(rm.snapshots)-1]
}

// GetSnapshots returns all snapshots, oldest first
func (rm *RollbackManager) GetSnapshots() []*Snapshot {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	result := make([]*Snapshot, len(rm.snapshots))
	copy(result, rm.snapshots)
	return result
}

// ClearSnapshots removes all saved snapshots
func (rm *RollbackManager) ClearSnapshots() {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	rm.snapshots = make([]*Snapshot, 0, DefaultMaxSnapshots)
}

// RollbackToSnapshot writes the saved connection back and verifies it
func (rm *RollbackManager) RollbackToSnapshot(ctx context.Context, snapshot *Snapshot, opts *VerificationOptions) *VerificationResult {
	if snapshot == nil {
		return &VerificationResult{Error: ErrNoSnapshot}
	}
	if !snapshot.Existed {
		return &VerificationResult{Error: fmt.Errorf("%q: %w", snapshot.ID, ErrCannotUndoCreate)}
	}
	return rm.client.UpdateAndVerify(ctx, snapshot.Connection, opts)
}

// RollbackToLatest restores the most recent snapshot
func (rm *RollbackManager) RollbackToLatest(ctx context.Context, opts *VerificationOptions) *VerificationResult {
	return rm.RollbackToSnapshot(ctx, rm.GetLatestSnapshot(), opts)
}

// SafeUpdateResult contains the results of a safe upsert
type SafeUpdateResult struct {
	Success     bool
	Description string

	// UpdateResult is the verification of the update itself
	UpdateResult *VerificationResult

	RollbackAttempted bool
	RollbackSucceeded bool

	// RollbackResult is only set when RollbackAttempted is true
	RollbackResult *VerificationResult

	Error error
}

// SafeUpsert snapshots the connection, upserts and verifies it, and restores
// the snapshot when verification fails. Nothing is written if the snapshot
// cannot be taken, and nothing is restored if the write itself failed.
func (rm *RollbackManager) SafeUpsert(ctx context.Context, conn Connection, opts *VerificationOptions, description string) *SafeUpdateResult {
	result := &SafeUpdateResult{Description: description}

	snapshot, err := rm.SaveSnapshot(ctx, conn.ID, description)
	if err != nil {
		result.Error = fmt.Errorf("failed to save pre-update snapshot: %w", err)
		return result
	}

	verifyResult := rm.client.UpdateAndVerify(ctx, conn, opts)
	result.UpdateResult = verifyResult
	if verifyResult.Success {
		result.Success = true
		return result
	}
	if errors.Is(verifyResult.Error, ErrUpdateFailed) {
		result.Error = verifyResult.Error
		return result
	}

	result.RollbackAttempted = true
	rollbackResult := rm.RollbackToSnapshot(ctx, snapshot, opts)
	result.RollbackResult = rollbackResult

	if rollbackResult.Success {
		result.RollbackSucceeded = true
		result.Error = fmt.Errorf("update failed (%w), rolled back to the previous connection", verifyResult.Error)
	} else {
		result.Error = fmt.Errorf("update failed (%w) and rollback failed: %w", verifyResult.Error, rollbackResult.Error)
	}
	return result
}

// String returns a human-readable summary of the safe update result
func (r *SafeUpdateResult) String() string {
	if r.Success {
		return fmt.Sprintf("✅ Update succeeded: %s (verified in %d attempt(s))",
			r.Description, r.UpdateResult.Attempts)
	}

	if r.RollbackAttempted {
		if r.RollbackSucceeded {
			return fmt.Sprintf("⚠️  Update failed but was rolled back: %s\nUpdate error: %v\nRollback: verified after %d attempt(s)",
				r.Description, r.UpdateResult.Error, r.RollbackResult.Attempts)
		}
		return fmt.Sprintf("❌ Update failed and rollback failed: %s\nUpdate error: %v\nRollback error: %v",
			r.Description, r.UpdateResult.Error, r.RollbackResult.Error)
	}

	return fmt.Sprintf("❌ Update failed: %s\nError: %v", r.Description, r.Error)
}

// PromptBeforeDestructive returns a warning when applying update over current
// may cut connectivity. It returns "" for harmless updates. current is nil
// when the connection does not exist yet.
func PromptBeforeDestructive(current *Connection, update Connection) string {
	var warnings []string

	if current != nil {
		if current.IsUp() && !update.IsUp() {
			warnings = append(warnings, fmt.Sprintf("⚠️  Connection %q will be brought down", update.ID))
		}
		if current.Interface != "" && update.Interface != current.Interface {
			warnings = append(warnings, fmt.Sprintf("⚠️  Connection moves from %s to %s", current.Interface, orNone(update.Interface)))
		}
		if current.Method4 == MethodManual && update.Method4 != MethodManual {
			warnings = append(warnings, "⚠️  Static IPv4 configuration will be removed")
		}
		if current.Wireless != nil && update.Wireless != nil && current.Wireless.SSID != update.Wireless.SSID {
			warnings = append(warnings, "⚠️  Changing the wireless network may disconnect the system")
		}
	}
	if update.Wireless != nil && (update.Wireless.Security == "" || update.Wireless.Security == "none") {
		warnings = append(warnings, "⚠️  WARNING: Connecting to an open network (no password) is a security risk")
	}
	if update.Method4 == MethodDisabled && (update.Method6 == MethodDisabled || update.Method6 == "") && update.IsUp() {
		warnings = append(warnings, "⚠️  The connection will have no IP configuration")
	}

	if len(warnings) == 0 {
		return ""
	}

	var msg strings.Builder
	msg.WriteString("⚠️  POTENTIALLY DESTRUCTIVE CHANGES DETECTED ⚠️\n\n")
	for _, w := range warnings {
		msg.WriteString(w + "\n")
	}
	msg.WriteString("\nUse --safe to roll back automatically if the update cannot be verified.\n")
	return msg.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
