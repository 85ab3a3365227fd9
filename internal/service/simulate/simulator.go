// Package simulate implements the §4.5 Time Simulator: logical clock
// advancement, expiry scanning, and per-day usage decrement.
package simulate

import (
	"math"
	"sort"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"go.uber.org/zap"
)

// UsageRequest names an item to decrement on a simulated day, by id or
// (failing that) by name.
type UsageRequest struct {
	ItemID string
	Name   string
}

type ChangeSet struct {
	ItemsUsed           []UsedEntry
	ItemsExpired        []string
	ItemsDepletedToday  []string
}

type UsedEntry struct {
	ItemID        string
	RemainingUses int
}

type Result struct {
	NewDate time.Time
	Changes ChangeSet
}

type Simulator struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{log: log.Named("simulate")}
}

// Advance steps the clock forward by exactly one of numDays or
// toTimestamp, scanning for expiry and applying daily usage on every
// simulated day, in order (§4.5).
func (s *Simulator) Advance(
	clock time.Time,
	numDays *int,
	toTimestamp *time.Time,
	usagePerDay []UsageRequest,
	registry map[string]*cargo.Item,
) (Result, error) {
	if (numDays == nil) == (toTimestamp == nil) {
		return Result{}, cargo.ErrInvalidArgs
	}

	var days int
	switch {
	case numDays != nil:
		if *numDays < 0 {
			return Result{}, cargo.ErrInvalidArgs
		}
		days = *numDays
	case toTimestamp != nil:
		if toTimestamp.Before(clock) {
			return Result{}, cargo.ErrInvalidArgs
		}
		days = int(math.Ceil(toTimestamp.Sub(clock).Hours() / 24))
	}

	changes := ChangeSet{}
	newClock := clock
	for day := 0; day < days; day++ {
		newClock = newClock.AddDate(0, 0, 1)
		s.expireScan(newClock, registry, &changes)
		s.applyUsage(usagePerDay, registry, &changes)
	}

	s.log.Info("advanced clock",
		zap.Time("new_date", newClock),
		zap.Int("days", days),
		zap.Int("expired", len(changes.ItemsExpired)),
		zap.Int("used", len(changes.ItemsUsed)))

	return Result{NewDate: newClock, Changes: changes}, nil
}

func (s *Simulator) expireScan(clock time.Time, registry map[string]*cargo.Item, changes *ChangeSet) {
	ids := sortedIDs(registry)
	for _, id := range ids {
		item := registry[id]
		if item.Status == cargo.StatusDisposed {
			continue
		}
		if item.IsExpired(clock) && item.Status != cargo.StatusWaste {
			item.Status = cargo.StatusWaste
			item.WasteReason = cargo.ReasonExpired
			changes.ItemsExpired = append(changes.ItemsExpired, id)
		}
	}
}

func (s *Simulator) applyUsage(requests []UsageRequest, registry map[string]*cargo.Item, changes *ChangeSet) {
	ids := sortedIDs(registry)
	for _, req := range requests {
		item := resolveUsageTarget(req, registry, ids)
		if item == nil || item.RemainingUses <= 0 {
			continue
		}
		item.RemainingUses--
		changes.ItemsUsed = append(changes.ItemsUsed, UsedEntry{ItemID: item.ItemID, RemainingUses: item.RemainingUses})
		if item.RemainingUses == 0 {
			item.Status = cargo.StatusWaste
			item.WasteReason = cargo.ReasonOutOfUses
			changes.ItemsDepletedToday = append(changes.ItemsDepletedToday, item.ItemID)
		}
	}
}

// resolveUsageTarget resolves by itemId first, then by name taking the
// first match in ascending itemId order (§4.5 step 3).
func resolveUsageTarget(req UsageRequest, registry map[string]*cargo.Item, ids []string) *cargo.Item {
	if req.ItemID != "" {
		return registry[req.ItemID]
	}
	if req.Name == "" {
		return nil
	}
	for _, id := range ids {
		if registry[id].Name == req.Name {
			return registry[id]
		}
	}
	return nil
}

func sortedIDs(registry map[string]*cargo.Item) []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
