// Package waste implements the §4.4 Waste/Return Planner: expiry/usage
// identification, weight-bounded return manifest selection, and
// undocking (final disposal).
package waste

import (
	"sort"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service/retrieval"
	"go.uber.org/zap"
)

// Identified is one waste item surfaced by a scan.
type Identified struct {
	ItemID      string
	Name        string
	Reason      cargo.WasteReason
	ContainerID string
	Position    cargo.Position
}

// ManifestEntry names one item selected for return.
type ManifestEntry struct {
	ItemID string
	Name   string
	Reason cargo.WasteReason
}

// Manifest is the §4.4 step-5 output.
type Manifest struct {
	UndockingContainerID string
	UndockingDate        time.Time
	ReturnItems          []ManifestEntry
	TotalVolume          int
	TotalWeight          float64
}

// MoveRecord relocates one selected item toward the undocking container.
type MoveRecord struct {
	ItemID        string
	FromContainer string
	ToContainer   string
}

// ReturnPlan bundles the manifest with per-item retrieval steps.
type ReturnPlan struct {
	Manifest       Manifest
	Moves          []MoveRecord
	RetrievalPlans []retrieval.Plan
}

type Planner struct {
	log       *zap.Logger
	retrieval *retrieval.Planner
}

func New(log *zap.Logger, r *retrieval.Planner) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{log: log.Named("waste"), retrieval: r}
}

// Identify scans the registry for items with Status == StatusWaste.
func Identify(registry map[string]*cargo.Item) []Identified {
	var out []Identified
	for _, item := range registry {
		if item.Status != cargo.StatusWaste {
			continue
		}
		id := Identified{ItemID: item.ItemID, Name: item.Name, Reason: item.WasteReason, ContainerID: item.ContainerID}
		if item.Position != nil {
			id.Position = *item.Position
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// BuildReturnPlan selects waste items under a mass budget and produces
// retrieval steps plus a manifest (§4.4 steps 1-5).
func (p *Planner) BuildReturnPlan(
	undockingContainerID string,
	undockingDate time.Time,
	maxWeight float64,
	registry map[string]*cargo.Item,
	containers map[string]*cargo.ContainerSpace,
) (ReturnPlan, error) {
	if _, ok := containers[undockingContainerID]; !ok {
		return ReturnPlan{}, cargo.ErrNotFound
	}
	if maxWeight < 0 {
		return ReturnPlan{}, cargo.ErrInvalidArgs
	}

	waste := Identify(registry)

	var total float64
	for _, w := range waste {
		total += registry[w.ItemID].MassKg
	}

	var selected []Identified
	if total <= maxWeight {
		selected = waste
	} else {
		sort.Slice(waste, func(i, j int) bool {
			return registry[waste[i].ItemID].Priority > registry[waste[j].ItemID].Priority
		})
		cum := 0.0
		for _, w := range waste {
			mass := registry[w.ItemID].MassKg
			if cum+mass > maxWeight {
				continue
			}
			cum += mass
			selected = append(selected, w)
		}
	}

	plan := ReturnPlan{Manifest: Manifest{
		UndockingContainerID: undockingContainerID,
		UndockingDate:        undockingDate,
	}}

	for _, w := range selected {
		item := registry[w.ItemID]
		if c, ok := containers[item.ContainerID]; ok {
			rp, err := p.retrieval.Plan(item, c, registry)
			if err == nil {
				plan.RetrievalPlans = append(plan.RetrievalPlans, rp)
			}
		}
		plan.Moves = append(plan.Moves, MoveRecord{
			ItemID:        w.ItemID,
			FromContainer: item.ContainerID,
			ToContainer:   undockingContainerID,
		})
		plan.Manifest.ReturnItems = append(plan.Manifest.ReturnItems, ManifestEntry{
			ItemID: w.ItemID, Name: w.Name, Reason: w.Reason,
		})
		if item.Position != nil {
			plan.Manifest.TotalVolume += item.Position.Volume()
		}
		plan.Manifest.TotalWeight += item.MassKg
	}

	p.log.Info("return plan built",
		zap.String("undocking_container_id", undockingContainerID),
		zap.Int("selected", len(selected)),
		zap.Int("candidates", len(waste)))
	return plan, nil
}

// Undock removes every item currently in containerID from its container
// and the registry, marking each StatusDisposed. Returns the count
// removed (§4.4 Completion).
func Undock(containerID string, containers map[string]*cargo.ContainerSpace, registry map[string]*cargo.Item) (int, error) {
	c, ok := containers[containerID]
	if !ok {
		return 0, cargo.ErrNotFound
	}

	occupants := c.Occupants()
	for _, occ := range occupants {
		c.Remove(occ.ItemID)
		if item, ok := registry[occ.ItemID]; ok {
			item.Status = cargo.StatusDisposed
			item.ContainerID = ""
			item.Position = nil
		}
		delete(registry, occ.ItemID)
	}
	return len(occupants), nil
}
