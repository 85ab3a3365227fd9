package cargo

import (
	"fmt"
	"time"
)

// Status is an item's lifecycle state (§3 Lifecycle).
type Status string

const (
	StatusPending  Status = "pending"
	StatusStored   Status = "stored"
	StatusWaste    Status = "waste"
	StatusDisposed Status = "disposed"
)

// WasteReason explains why an item transitioned to StatusWaste.
type WasteReason string

const (
	ReasonNone      WasteReason = ""
	ReasonExpired   WasteReason = "Expired"
	ReasonOutOfUses WasteReason = "OutOfUses"
)

// Item is a physical, axis-aligned box tracked by the engine. Items are
// looked up and referenced by ItemID everywhere outside this struct —
// never by direct binding — so containers and the registry never form a
// reference cycle (§9 Cyclic references).
type Item struct {
	ItemID string
	Name   string

	W, D, H int
	MassKg  float64

	Priority      int // [1,100]
	ExpiryDate    *time.Time
	UsageLimit    int
	RemainingUses int
	PreferredZone string

	Status      Status
	WasteReason WasteReason

	// Set only when Status == StatusStored.
	ContainerID string
	Position    *Position
}

// Volume returns the item's unoriented volume (orientation-independent).
func (i *Item) Volume() int { return i.W * i.D * i.H }

// Validate checks field-level invariants on a freshly submitted item
// (I5's usage bound and the structural parts of I1/I4 that don't require
// container context).
func (i *Item) Validate() error {
	if i.ItemID == "" {
		return fmt.Errorf("%w: itemId required", ErrValidation)
	}
	if i.W < 0 || i.D < 0 || i.H < 0 {
		return fmt.Errorf("%w: dimensions must be non-negative", ErrValidation)
	}
	if i.MassKg < 0 {
		return fmt.Errorf("%w: mass must be non-negative", ErrValidation)
	}
	if i.Priority < 1 || i.Priority > 100 {
		return fmt.Errorf("%w: priority must be in [1,100]", ErrValidation)
	}
	if i.UsageLimit < 0 {
		return fmt.Errorf("%w: usageLimit must be non-negative", ErrValidation)
	}
	if i.RemainingUses < 0 || i.RemainingUses > i.UsageLimit {
		return fmt.Errorf("%w: remainingUses must be in [0,usageLimit]", ErrValidation)
	}
	return nil
}

// IsExpired reports whether the item's expiry has passed as of clock.
func (i *Item) IsExpired(clock time.Time) bool {
	return i.ExpiryDate != nil && !i.ExpiryDate.After(clock)
}

// IsDepleted reports whether the item has no uses left.
func (i *Item) IsDepleted() bool { return i.RemainingUses == 0 }
