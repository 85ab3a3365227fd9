// Package service composes the core's three planners and the Time
// Simulator behind a single writer lock over one process-wide Engine,
// per §9's "global mutable state" design note: the container map, item
// registry, action log, and clock all live behind one owner object.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/repo"
	"github.com/cargostow/stowage/internal/service/placement"
	"github.com/cargostow/stowage/internal/service/retrieval"
	"github.com/cargostow/stowage/internal/service/simulate"
	"github.com/cargostow/stowage/internal/service/waste"
	"go.uber.org/zap"
)

// Engine is the single entry point for every core operation. Each public
// method acquires mu for its whole duration (§5): no suspension points,
// no partial mutation on error.
type Engine struct {
	log   *zap.Logger
	store repo.Store

	mu         sync.Mutex
	clock      time.Time
	containers map[string]*cargo.ContainerSpace
	registry   map[string]*cargo.Item

	placement *placement.Planner
	retrieval *retrieval.Planner
	waste     *waste.Planner
	simulate  *simulate.Simulator
}

// New constructs an Engine and reconciles it from store: containers come
// back as empty spaces, then every stored item is replayed into its
// container's occupancy. clock0 is the simulator's initial logical time.
func New(ctx context.Context, log *zap.Logger, store repo.Store, clock0 time.Time) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("engine")

	e := &Engine{
		log:        log,
		store:      store,
		clock:      clock0,
		containers: make(map[string]*cargo.ContainerSpace),
		registry:   make(map[string]*cargo.Item),
		placement:  placement.New(log),
		waste:      nil,
		simulate:   simulate.New(log),
	}
	e.retrieval = retrieval.New(log)
	e.waste = waste.New(log, e.retrieval)

	if err := e.reconcile(ctx); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	return e, nil
}

func (e *Engine) reconcile(ctx context.Context) error {
	records, err := e.store.GetContainers(ctx)
	if err != nil {
		return fmt.Errorf("get containers: %w", err)
	}
	for _, rec := range records {
		e.containers[rec.ContainerID] = cargo.NewContainerSpace(rec.ContainerID, rec.Zone, rec.W, rec.D, rec.H)
	}

	items, err := e.store.GetItems(ctx)
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}
	for _, item := range items {
		e.registry[item.ItemID] = item
		if item.Status == cargo.StatusStored && item.Position != nil {
			c, ok := e.containers[item.ContainerID]
			if !ok {
				e.log.Warn("stored item references unknown container",
					zap.String("item_id", item.ItemID), zap.String("container_id", item.ContainerID))
				continue
			}
			if err := c.Place(item.ItemID, *item.Position); err != nil {
				e.log.Warn("reconcile placement conflict",
					zap.String("item_id", item.ItemID), zap.Error(err))
			}
		}
	}
	return nil
}

func (e *Engine) appendLog(ctx context.Context, actionType, itemID string, details map[string]any) {
	if err := e.store.AppendLog(ctx, repo.LogEntry{
		Timestamp:  e.clock,
		ActionType: actionType,
		ItemID:     itemID,
		Details:    details,
	}); err != nil {
		e.log.Error("append log failed", zap.String("action", actionType), zap.Error(err))
	}
}

// RegisterContainer seeds a container at process start. Containers are
// created once and never destroyed by the core (§3 Lifecycle).
func (e *Engine) RegisterContainer(ctx context.Context, id, zone string, w, d, h int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.containers[id]; exists {
		return cargo.ErrDuplicate
	}
	e.containers[id] = cargo.NewContainerSpace(id, zone, w, d, h)
	return nil
}

// AddItem registers a new pending item. Rejects a repeated itemId with
// ErrDuplicate (§9 open question, resolved).
func (e *Engine) AddItem(ctx context.Context, item *cargo.Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := item.Validate(); err != nil {
		return err
	}
	if _, exists := e.registry[item.ItemID]; exists {
		return cargo.ErrDuplicate
	}

	item.Status = cargo.StatusPending
	item.ContainerID = ""
	item.Position = nil

	if err := e.store.UpsertItem(ctx, item); err != nil {
		return fmt.Errorf("persist: %w", cargo.ErrUnavailable)
	}
	e.registry[item.ItemID] = item
	e.appendLog(ctx, repo.ActionAdd, item.ItemID, nil)
	return nil
}

// Place runs the Placement Planner (§4.2) over the named pending items.
// The whole batch is transactional: if persisting any touched item fails,
// every in-memory mutation from this call is rolled back.
func (e *Engine) Place(ctx context.Context, itemIDs []string) ([]placement.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]*cargo.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := e.registry[id]
		if !ok {
			return nil, cargo.ErrNotFound
		}
		if item.Status != cargo.StatusPending {
			return nil, fmt.Errorf("%w: item %s is not pending", cargo.ErrConflict, id)
		}
		items = append(items, item)
	}

	results := e.placement.PlaceAll(items, e.containers, e.registry)

	touched := map[string]*cargo.Item{}
	for _, r := range results {
		if r.Status != placement.StatusUnplaced {
			touched[r.ItemID] = e.registry[r.ItemID]
		}
		for _, mv := range r.Moves {
			touched[mv.ItemID] = e.registry[mv.ItemID]
		}
	}

	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := e.store.UpsertItem(ctx, touched[id]); err != nil {
			e.rollbackPlacement(results)
			return nil, fmt.Errorf("persist %s: %w", id, cargo.ErrUnavailable)
		}
	}

	for _, r := range results {
		switch r.Status {
		case placement.StatusPlaced:
			e.appendLog(ctx, repo.ActionPlacement, r.ItemID, nil)
		case placement.StatusRearranged:
			e.appendLog(ctx, repo.ActionRearrange, r.ItemID, map[string]any{"moves": len(r.Moves)})
		}
	}
	return results, nil
}

// rollbackPlacement reverses every mutation a Place call made, used only
// when persisting the batch fails partway through.
func (e *Engine) rollbackPlacement(results []placement.Result) {
	for _, r := range results {
		if r.Status == placement.StatusPlaced || r.Status == placement.StatusRearranged {
			if c, ok := e.containers[r.ContainerID]; ok {
				c.Remove(r.ItemID)
			}
			if item, ok := e.registry[r.ItemID]; ok {
				item.Status = cargo.StatusPending
				item.ContainerID = ""
				item.Position = nil
			}
		}
		for _, mv := range r.Moves {
			if c, ok := e.containers[mv.To.ContainerID]; ok {
				c.Remove(mv.ItemID)
			}
			if c, ok := e.containers[mv.From.ContainerID]; ok {
				c.Place(mv.ItemID, mv.From.Position)
			}
			if item, ok := e.registry[mv.ItemID]; ok {
				pos := mv.From.Position
				item.Status = cargo.StatusStored
				item.ContainerID = mv.From.ContainerID
				item.Position = &pos
			}
		}
	}
}

// SearchResult is the read-only lookup §4.3/original_source's search
// endpoint returns: the item plus, if it is stored, its retrieval plan.
type SearchResult struct {
	Found bool
	Item  *cargo.Item
	Plan  *retrieval.Plan
}

// Search looks up an item by id or name without mutating state. Per §7's
// exception, every search call is logged, even an empty one.
func (e *Engine) Search(ctx context.Context, idOrName string) (SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := e.registry[idOrName]
	if item == nil {
		ids := make([]string, 0, len(e.registry))
		for id := range e.registry {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if e.registry[id].Name == idOrName {
				item = e.registry[id]
				break
			}
		}
	}

	defer e.appendLog(ctx, repo.ActionSearch, idOrName, nil)

	if item == nil {
		return SearchResult{}, nil
	}

	result := SearchResult{Found: true, Item: item}
	if item.Status == cargo.StatusStored || item.Status == cargo.StatusWaste {
		if c, ok := e.containers[item.ContainerID]; ok {
			if plan, err := e.retrieval.Plan(item, c, e.registry); err == nil {
				result.Plan = &plan
			}
		}
	}
	return result, nil
}

// Retrieve executes the retrieval plan for itemID: blockers are lifted out
// and replaced, the target is pulled and its usage decremented, and — if
// uses remain after the decrement — it returns to StatusPending so it can
// be placed again; otherwise it becomes waste (§4.3, §9 round-trip law).
func (e *Engine) Retrieve(ctx context.Context, itemID string) (retrieval.Plan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.registry[itemID]
	if !ok {
		return retrieval.Plan{}, cargo.ErrNotFound
	}
	c, ok := e.containers[item.ContainerID]
	if !ok {
		return retrieval.Plan{}, cargo.ErrNotFound
	}

	plan, err := e.retrieval.Plan(item, c, e.registry)
	if err != nil {
		return retrieval.Plan{}, err
	}

	origContainerID := item.ContainerID
	origPosition := item.Position
	origStatus := item.Status
	origWasteReason := item.WasteReason
	origRemainingUses := item.RemainingUses
	targetPos, _ := c.Get(itemID)

	type lifted struct {
		id  string
		pos cargo.Position
	}
	var liftedBlockers []lifted

	for _, step := range plan.Steps {
		switch step.Action {
		case retrieval.ActionRemove:
			pos, _ := c.Remove(step.ItemID)
			liftedBlockers = append(liftedBlockers, lifted{id: step.ItemID, pos: pos})
		case retrieval.ActionRetrieve:
			c.Remove(step.ItemID)
		case retrieval.ActionPlaceBack:
			for _, b := range liftedBlockers {
				if b.id == step.ItemID {
					c.Place(b.id, b.pos)
				}
			}
		}
	}
	// A target at the open face has an empty plan with no retrieve step;
	// it leaves the container all the same.
	c.Remove(itemID)

	if item.RemainingUses > 0 {
		item.RemainingUses--
	}
	if item.RemainingUses == 0 {
		item.Status = cargo.StatusWaste
		item.WasteReason = cargo.ReasonOutOfUses
	} else {
		item.Status = cargo.StatusPending
	}
	item.ContainerID = ""
	item.Position = nil

	if err := e.store.UpsertItem(ctx, item); err != nil {
		c.Place(itemID, targetPos)
		item.ContainerID = origContainerID
		item.Position = origPosition
		item.Status = origStatus
		item.WasteReason = origWasteReason
		item.RemainingUses = origRemainingUses
		return retrieval.Plan{}, fmt.Errorf("persist: %w", cargo.ErrUnavailable)
	}
	e.appendLog(ctx, repo.ActionRetrieval, itemID, map[string]any{"fromWaste": plan.FromWaste, "blockers": (len(plan.Steps) - 1) / 2})
	return plan, nil
}

// IdentifyWaste reports every item currently marked StatusWaste (§4.4).
func (e *Engine) IdentifyWaste(ctx context.Context) []waste.Identified {
	e.mu.Lock()
	defer e.mu.Unlock()
	return waste.Identify(e.registry)
}

// BuildReturnPlan computes a weight-bounded return manifest without
// mutating state; physical relocation happens only at Undock.
func (e *Engine) BuildReturnPlan(ctx context.Context, undockingContainerID string, undockingDate time.Time, maxWeight float64) (waste.ReturnPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.waste.BuildReturnPlan(undockingContainerID, undockingDate, maxWeight, e.registry, e.containers)
	if err != nil {
		return waste.ReturnPlan{}, err
	}
	e.appendLog(ctx, repo.ActionWaste, "", map[string]any{
		"undockingContainerId": undockingContainerID,
		"selected":             len(plan.Manifest.ReturnItems),
	})
	return plan, nil
}

// Undock disposes of every item currently in containerID (§4.4 Completion).
func (e *Engine) Undock(ctx context.Context, containerID string, timestamp time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.containers[containerID]
	if !ok {
		return 0, cargo.ErrNotFound
	}

	type snapshot struct {
		item *cargo.Item
		pos  cargo.Position
	}
	var snapshots []snapshot
	for _, occ := range c.Occupants() {
		item, ok := e.registry[occ.ItemID]
		if !ok {
			continue
		}
		snapshots = append(snapshots, snapshot{item: cloneItem(item), pos: occ.Position})
	}

	count, err := waste.Undock(containerID, e.containers, e.registry)
	if err != nil {
		return 0, err
	}

	for _, snap := range snapshots {
		if err := e.store.UpdateItem(ctx, snap.item.ItemID, repo.ItemPatch{Status: statusPtr(cargo.StatusDisposed)}); err != nil {
			for _, s := range snapshots {
				e.registry[s.item.ItemID] = s.item
				c.Place(s.item.ItemID, s.pos)
			}
			return 0, fmt.Errorf("persist disposal %s: %w", snap.item.ItemID, cargo.ErrUnavailable)
		}
	}
	for _, snap := range snapshots {
		e.appendLog(ctx, repo.ActionDisposal, snap.item.ItemID, map[string]any{"undockingContainerId": containerID})
	}
	return count, nil
}

// cloneItem returns a shallow copy of item with Position deep-copied, used
// to snapshot pre-mutation state for rollback.
func cloneItem(item *cargo.Item) *cargo.Item {
	clone := *item
	if item.Position != nil {
		pos := *item.Position
		clone.Position = &pos
	}
	return &clone
}

// ContainerStats is a read-only occupancy summary, supplemented from
// original_source/backend.py's container-status view.
type ContainerStats struct {
	ContainerID   string
	Zone          string
	ItemCount     int
	UsedVolume    int
	TotalVolume   int
}

func (e *Engine) ContainerStats(ctx context.Context) []ContainerStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.containers))
	for id := range e.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]ContainerStats, 0, len(ids))
	for _, id := range ids {
		c := e.containers[id]
		out = append(out, ContainerStats{
			ContainerID: c.ID,
			Zone:        c.Zone,
			ItemCount:   c.Len(),
			UsedVolume:  c.UsedVolume(),
			TotalVolume: c.W * c.D * c.H,
		})
	}
	return out
}

// Simulate advances the logical clock (§4.5), persisting every item the
// day-stepping touched.
func (e *Engine) Simulate(ctx context.Context, numDays *int, toTimestamp *time.Time, usage []simulate.UsageRequest) (simulate.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	type snapshot struct {
		status        cargo.Status
		wasteReason   cargo.WasteReason
		remainingUses int
	}
	before := make(map[string]snapshot, len(e.registry))
	for id, item := range e.registry {
		before[id] = snapshot{status: item.Status, wasteReason: item.WasteReason, remainingUses: item.RemainingUses}
	}
	origClock := e.clock

	result, err := e.simulate.Advance(e.clock, numDays, toTimestamp, usage, e.registry)
	if err != nil {
		return simulate.Result{}, err
	}
	e.clock = result.NewDate

	touched := map[string]struct{}{}
	for _, id := range result.Changes.ItemsExpired {
		touched[id] = struct{}{}
	}
	for _, u := range result.Changes.ItemsUsed {
		touched[u.ItemID] = struct{}{}
	}
	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := e.store.UpsertItem(ctx, e.registry[id]); err != nil {
			for _, rid := range ids {
				if snap, ok := before[rid]; ok {
					if item, ok := e.registry[rid]; ok {
						item.Status = snap.status
						item.WasteReason = snap.wasteReason
						item.RemainingUses = snap.remainingUses
					}
				}
			}
			e.clock = origClock
			return simulate.Result{}, fmt.Errorf("persist %s: %w", id, cargo.ErrUnavailable)
		}
	}

	for _, id := range result.Changes.ItemsExpired {
		e.appendLog(ctx, repo.ActionWaste, id, map[string]any{"reason": cargo.ReasonExpired})
	}
	for _, id := range result.Changes.ItemsDepletedToday {
		e.appendLog(ctx, repo.ActionWaste, id, map[string]any{"reason": cargo.ReasonOutOfUses})
	}
	return result, nil
}

// Logs reads the action log through the configured filter.
func (e *Engine) Logs(ctx context.Context, filter repo.LogFilter) ([]repo.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ReadLogs(ctx, filter)
}

func statusPtr(s cargo.Status) *cargo.Status { return &s }
