// Package repo defines the Store adapter contract (§6): the sole sink
// outside the core. The core depends only on this interface; concrete
// persistence lives in memstore (in-memory, for tests and as a Store of
// record when no Redis is configured) and redisstore (production).
package repo

import (
	"context"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
)

// Action types recognised in the append-only log (§6).
const (
	ActionAdd       = "add"
	ActionPlacement = "placement"
	ActionRetrieval = "retrieval"
	ActionWaste     = "waste"
	ActionDisposal  = "disposal"
	ActionSearch    = "search"
	ActionRearrange = "rearrange"
)

// ContainerRecord is a container's durable metadata. Occupancy lives in
// the in-memory ContainerSpace the engine rebuilds from item positions at
// startup, not in this record.
type ContainerRecord struct {
	ContainerID string
	Zone        string
	W, D, H     int
}

// ItemPatch is a sparse partial update; nil fields are left unchanged.
type ItemPatch struct {
	Status        *cargo.Status
	ContainerID   *string
	Position      *cargo.Position
	RemainingUses *int
	WasteReason   *cargo.WasteReason
}

// LogEntry is one append-only action-log record (§6).
type LogEntry struct {
	Timestamp  time.Time
	ActionType string
	ItemID     string
	UserID     string
	Details    map[string]any
}

// LogFilter narrows ReadLogs. Zero values mean "no filter" on that field.
// Since/Until extend §6's filter with the time range supplemented from
// the original implementation's log viewer.
type LogFilter struct {
	ActionType string
	Since      *time.Time
	Until      *time.Time
}

// Store is the persistence contract. All methods are synchronous; a
// failing call must leave no partial state (§5).
type Store interface {
	GetContainers(ctx context.Context) ([]ContainerRecord, error)
	GetItems(ctx context.Context) ([]*cargo.Item, error)
	UpsertItem(ctx context.Context, item *cargo.Item) error
	UpdateItem(ctx context.Context, itemID string, patch ItemPatch) error
	MarkWaste(ctx context.Context, itemID string, reason cargo.WasteReason) error
	GetWaste(ctx context.Context) ([]*cargo.Item, error)
	AppendLog(ctx context.Context, entry LogEntry) error
	ReadLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error)
}
