// Package placement implements the §4.2 Placement Planner: 3D bin packing
// under priority, zone preference, and accessibility scoring, with a
// rearrangement fallback (§4.2.1) when an item does not fit anywhere.
package placement

import (
	"sort"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"go.uber.org/zap"
)

// Status values for a single item's placement outcome.
const (
	StatusPlaced     = "placed"
	StatusRearranged = "rearranged"
	StatusUnplaced   = "unplaced"
)

// Placement names a container + position an item occupies.
type Placement struct {
	ContainerID string
	Position    cargo.Position
}

// Move records a donor item relocated during rearrangement.
type Move struct {
	ItemID string
	From   Placement
	To     Placement
}

// Result is the per-item outcome of a placement batch.
type Result struct {
	ItemID      string
	Status      string
	ContainerID string
	Position    cargo.Position
	Moves       []Move
}

// Planner holds no state of its own; it operates on the caller-supplied
// container set and item registry, mirroring how the teacher's services
// take a logger and otherwise stay stateless between calls.
type Planner struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{log: log.Named("placement")}
}

// PlaceAll places items, mutating containers and the items themselves in
// place. registry resolves any item id to its *cargo.Item, including
// items already stored elsewhere, so rearrangement can find donors.
// Items are processed priority-first per §4.2 step 1.
func (p *Planner) PlaceAll(items []*cargo.Item, containers map[string]*cargo.ContainerSpace, registry map[string]*cargo.Item) []Result {
	ordered := make([]*cargo.Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Volume() != b.Volume() {
			return a.Volume() > b.Volume()
		}
		return a.ItemID < b.ItemID
	})

	results := make([]Result, 0, len(ordered))
	for _, item := range ordered {
		results = append(results, p.placeOne(item, containers, registry))
	}
	return results
}

func (p *Planner) placeOne(item *cargo.Item, containers map[string]*cargo.ContainerSpace, registry map[string]*cargo.Item) Result {
	if cand, ok := bestCandidate(item, containers); ok {
		apply(item, containers, cand)
		p.log.Info("placed",
			zap.String("item_id", item.ItemID),
			zap.String("container_id", cand.containerID))
		return Result{ItemID: item.ItemID, Status: StatusPlaced, ContainerID: cand.containerID, Position: cand.pos}
	}

	if moves, cand, ok := p.rearrange(item, containers, registry); ok {
		p.log.Info("rearranged",
			zap.String("item_id", item.ItemID),
			zap.Int("moves", len(moves)))
		return Result{ItemID: item.ItemID, Status: StatusRearranged, ContainerID: cand.containerID, Position: cand.pos, Moves: moves}
	}

	p.log.Warn("unplaced", zap.String("item_id", item.ItemID))
	return Result{ItemID: item.ItemID, Status: StatusUnplaced}
}

// candidate is an internal scored placement option.
type candidate struct {
	containerID string
	pos         cargo.Position
	score       float64
}

// orderedContainerIDs returns container ids with the item's preferred
// zone first (stable by containerId), then the rest (stable by containerId).
func orderedContainerIDs(item *cargo.Item, containers map[string]*cargo.ContainerSpace) []string {
	ids := make([]string, 0, len(containers))
	for id := range containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	preferred := make([]string, 0, len(ids))
	rest := make([]string, 0, len(ids))
	for _, id := range ids {
		if containers[id].Zone == item.PreferredZone {
			preferred = append(preferred, id)
		} else {
			rest = append(rest, id)
		}
	}
	return append(preferred, rest...)
}

// bestCandidate enumerates every feasible (container, orientation, anchor)
// for item and returns the highest-scoring one per §4.2 steps 2-4.
func bestCandidate(item *cargo.Item, containers map[string]*cargo.ContainerSpace) (candidate, bool) {
	var best candidate
	found := false

	for _, cid := range orderedContainerIDs(item, containers) {
		c := containers[cid]
		zoneMatch := 0.0
		if c.Zone == item.PreferredZone {
			zoneMatch = 1.0
		}
		containerVolume := c.W * c.D * c.H

		for _, ori := range cargo.Orientations(item.W, item.D, item.H) {
			for _, anchor := range c.Skyline() {
				pos := cargo.NewPosition(anchor.WS, anchor.DS, anchor.HS, ori.W, ori.D, ori.H)
				if !c.CanFit(pos) {
					continue
				}

				priorityFactor := float64(item.Priority) / 100
				depthFactor := 1.0
				if c.D > 0 {
					depthFactor = 1 - float64(pos.DS)/float64(c.D)
				}
				volumeFactor := 0.0
				if containerVolume > 0 {
					volumeFactor = float64(ori.W*ori.D*ori.H) / float64(containerVolume)
				}
				score := 10*priorityFactor*depthFactor + 5*zoneMatch + 2*volumeFactor

				cand := candidate{containerID: cid, pos: pos, score: score}
				if !found || better(cand, best) {
					best, found = cand, true
				}
			}
		}
	}
	return best, found
}

// better reports whether a outranks b: higher score wins, ties broken
// lexicographically by (containerId, ds, hs, ws).
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.containerID != b.containerID {
		return a.containerID < b.containerID
	}
	if a.pos.DS != b.pos.DS {
		return a.pos.DS < b.pos.DS
	}
	if a.pos.HS != b.pos.HS {
		return a.pos.HS < b.pos.HS
	}
	return a.pos.WS < b.pos.WS
}

func apply(item *cargo.Item, containers map[string]*cargo.ContainerSpace, cand candidate) {
	pos := cand.pos
	containers[cand.containerID].Place(item.ItemID, pos)
	item.Status = cargo.StatusStored
	item.ContainerID = cand.containerID
	item.Position = &pos
}

func undo(item *cargo.Item, containers map[string]*cargo.ContainerSpace) {
	if item.Status != cargo.StatusStored {
		return
	}
	containers[item.ContainerID].Remove(item.ItemID)
	item.Status = cargo.StatusPending
	item.ContainerID = ""
	item.Position = nil
}

// donor is a relocation candidate for rearrangement.
type donor struct {
	item *cargo.Item
	orig Placement
}

// rearrange implements §4.2.1: evict lower-priority items one at a time,
// trying to fit item in the freed space and re-home the evicted item
// elsewhere, rolling back on any failure.
func (p *Planner) rearrange(item *cargo.Item, containers map[string]*cargo.ContainerSpace, registry map[string]*cargo.Item) ([]Move, candidate, bool) {
	donors := collectDonors(item, containers, registry)

	for _, d := range donors {
		containers[d.orig.ContainerID].Remove(d.item.ItemID)
		d.item.Status = cargo.StatusPending
		d.item.ContainerID = ""
		d.item.Position = nil

		cand, ok := bestCandidate(item, containers)
		if !ok {
			restore(d, containers)
			continue
		}
		apply(item, containers, cand)

		dCand, dOk := bestCandidate(d.item, containers)
		if !dOk {
			undo(item, containers)
			restore(d, containers)
			continue
		}
		apply(d.item, containers, dCand)

		move := Move{
			ItemID: d.item.ItemID,
			From:   d.orig,
			To:     Placement{ContainerID: dCand.containerID, Position: dCand.pos},
		}
		return []Move{move}, cand, true
	}

	return nil, candidate{}, false
}

// collectDonors gathers stored items with lower priority than item,
// ascending by priority then descending by depth (§4.2.1 step 1).
func collectDonors(item *cargo.Item, containers map[string]*cargo.ContainerSpace, registry map[string]*cargo.Item) []donor {
	var donors []donor
	for cid, c := range containers {
		for _, occ := range c.Occupants() {
			candidateItem, ok := registry[occ.ItemID]
			if !ok || candidateItem.Priority >= item.Priority {
				continue
			}
			donors = append(donors, donor{
				item: candidateItem,
				orig: Placement{ContainerID: cid, Position: occ.Position},
			})
		}
	}
	sort.Slice(donors, func(i, j int) bool {
		a, b := donors[i], donors[j]
		if a.item.Priority != b.item.Priority {
			return a.item.Priority < b.item.Priority
		}
		return a.orig.Position.DS > b.orig.Position.DS
	})
	return donors
}

func restore(d donor, containers map[string]*cargo.ContainerSpace) {
	containers[d.orig.ContainerID].Place(d.item.ItemID, d.orig.Position)
	d.item.Status = cargo.StatusStored
	d.item.ContainerID = d.orig.ContainerID
	pos := d.orig.Position
	d.item.Position = &pos
}
