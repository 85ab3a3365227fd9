// Package retrieval implements the §4.3 Retrieval Planner: the ordered
// blocker-removal / retrieve / replace step list to extract a target item
// through a container's open face. Per the contract, plans are one level
// deep — a blocker that is itself blocked is left for the caller to
// re-invoke on, not flattened here (§9 open question, resolved).
package retrieval

import (
	"sort"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"go.uber.org/zap"
)

const (
	ActionRemove    = "remove"
	ActionRetrieve  = "retrieve"
	ActionPlaceBack = "placeBack"
)

// Step is one action in a retrieval plan.
type Step struct {
	Seq      int
	Action   string
	ItemID   string
	ItemName string
}

// Plan is the full ordered step list for retrieving one target item.
type Plan struct {
	TargetID  string
	Steps     []Step
	FromWaste bool
}

type Planner struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{log: log.Named("retrieval")}
}

// Plan computes the retrieval plan for target, using container to resolve
// blockers and registry to resolve blocker names. target must currently
// occupy container.
func (p *Planner) Plan(target *cargo.Item, container *cargo.ContainerSpace, registry map[string]*cargo.Item) (Plan, error) {
	if target.Status != cargo.StatusStored && target.Status != cargo.StatusWaste {
		return Plan{}, cargo.ErrNotFound
	}
	t, ok := container.Get(target.ItemID)
	if !ok {
		return Plan{}, cargo.ErrNotFound
	}

	plan := Plan{TargetID: target.ItemID, FromWaste: target.Status == cargo.StatusWaste}

	if t.DS == 0 {
		p.log.Info("no blockers", zap.String("item_id", target.ItemID))
		return plan, nil
	}

	blockers := directBlockers(t, target.ItemID, container)
	sort.Slice(blockers, func(i, j int) bool {
		a, b := blockers[i], blockers[j]
		if a.Position.DS != b.Position.DS {
			return a.Position.DS < b.Position.DS
		}
		if a.Position.WS != b.Position.WS {
			return a.Position.WS < b.Position.WS
		}
		if a.Position.HS != b.Position.HS {
			return a.Position.HS < b.Position.HS
		}
		return a.ItemID < b.ItemID
	})

	seq := 0
	for _, b := range blockers {
		name := registry[b.ItemID].Name
		plan.Steps = append(plan.Steps, Step{Seq: seq, Action: ActionRemove, ItemID: b.ItemID, ItemName: name})
		seq++
	}
	plan.Steps = append(plan.Steps, Step{Seq: seq, Action: ActionRetrieve, ItemID: target.ItemID})
	seq++
	for i := len(blockers) - 1; i >= 0; i-- {
		b := blockers[i]
		plan.Steps = append(plan.Steps, Step{Seq: seq, Action: ActionPlaceBack, ItemID: b.ItemID})
		seq++
	}

	p.log.Info("planned retrieval",
		zap.String("item_id", target.ItemID),
		zap.Int("blockers", len(blockers)))
	return plan, nil
}

// directBlockers returns occupants in corridor of target per §4.3's
// definition: strictly in front along depth, and sharing width/height
// extent with the target.
func directBlockers(t cargo.Position, targetID string, container *cargo.ContainerSpace) []cargo.Occupant {
	var out []cargo.Occupant
	for _, occ := range container.Occupants() {
		if occ.ItemID == targetID {
			continue
		}
		b := occ.Position
		if b.DS < t.DS && b.WS < t.WE && b.WE > t.WS && b.HS < t.HE && b.HE > t.HS {
			out = append(out, occ)
		}
	}
	return out
}
