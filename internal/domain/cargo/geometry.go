package cargo

import "sort"

// Position is an axis-aligned box [WS,WE) x [DS,DE) x [HS,HE) in a
// container's local coordinate frame. Kept as a flat struct rather than a
// deep object graph: geometry here is arithmetic, not behavior.
type Position struct {
	WS, DS, HS int
	WE, DE, HE int
}

func NewPosition(ws, ds, hs, w, d, h int) Position {
	return Position{WS: ws, DS: ds, HS: hs, WE: ws + w, DE: ds + d, HE: hs + h}
}

func (p Position) Width() int  { return p.WE - p.WS }
func (p Position) Depth() int  { return p.DE - p.DS }
func (p Position) Height() int { return p.HE - p.HS }
func (p Position) Volume() int { return p.Width() * p.Depth() * p.Height() }

// wellFormed reports whether the box has non-negative extents.
func (p Position) wellFormed() bool {
	return p.WS >= 0 && p.DS >= 0 && p.HS >= 0 && p.WE >= p.WS && p.DE >= p.DS && p.HE >= p.HS
}

// within reports whether p is fully inside a W x D x H container (I1).
func (p Position) within(w, d, h int) bool {
	return p.wellFormed() && p.WE <= w && p.DE <= d && p.HE <= h
}

// Overlaps reports whether a and b occupy common space on all three axes
// simultaneously (I2's disjointness test).
func Overlaps(a, b Position) bool {
	return a.WS < b.WE && b.WS < a.WE &&
		a.DS < b.DE && b.DS < a.DE &&
		a.HS < b.HE && b.HS < a.HE
}

// Orientation is one of an item's up to six axis permutations.
type Orientation struct{ W, D, H int }

// Orientations returns the distinct axis permutations of w, d, h.
// Items with repeated dimensions yield fewer than six.
func Orientations(w, d, h int) []Orientation {
	perms := [][3]int{
		{w, d, h}, {w, h, d}, {d, w, h},
		{d, h, w}, {h, w, d}, {h, d, w},
	}
	seen := make(map[[3]int]struct{}, 6)
	out := make([]Orientation, 0, 6)
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, Orientation{W: p[0], D: p[1], H: p[2]})
	}
	return out
}

// Occupant pairs an item id with its position, in container insertion order.
type Occupant struct {
	ItemID   string
	Position Position
}

// Anchor is a candidate lower-back-left corner for a new placement.
type Anchor struct{ WS, DS, HS int }

// ContainerSpace tracks a single container's dimensions and occupancy.
// Representation (b) from the contract: a set of (itemID, Position) pairs
// with an O(1) amortised insert and O(n) collision test against current
// occupants, which is the set actually placed (not the item population).
type ContainerSpace struct {
	ID   string
	Zone string
	W, D, H int

	order []string            // insertion order
	occ   map[string]Position // itemID -> position
}

func NewContainerSpace(id, zone string, w, d, h int) *ContainerSpace {
	return &ContainerSpace{
		ID: id, Zone: zone, W: w, D: d, H: h,
		occ: make(map[string]Position),
	}
}

// CanFit reports whether pos is within bounds and disjoint from every
// current occupant.
func (c *ContainerSpace) CanFit(pos Position) bool {
	if !pos.within(c.W, c.D, c.H) {
		return false
	}
	for _, existing := range c.occ {
		if Overlaps(pos, existing) {
			return false
		}
	}
	return true
}

// Place inserts itemID at pos. Precondition CanFit(pos); violating it is a
// conflict and leaves the space unmutated.
func (c *ContainerSpace) Place(itemID string, pos Position) error {
	if !c.CanFit(pos) {
		return ErrConflict
	}
	if _, exists := c.occ[itemID]; exists {
		return ErrDuplicate
	}
	c.occ[itemID] = pos
	c.order = append(c.order, itemID)
	return nil
}

// Remove evicts itemID and returns its prior position.
func (c *ContainerSpace) Remove(itemID string) (Position, error) {
	pos, ok := c.occ[itemID]
	if !ok {
		return Position{}, ErrNotFound
	}
	delete(c.occ, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return pos, nil
}

// Get returns the current position of itemID, if occupying this space.
func (c *ContainerSpace) Get(itemID string) (Position, bool) {
	pos, ok := c.occ[itemID]
	return pos, ok
}

// Occupants returns all occupants in insertion order.
func (c *ContainerSpace) Occupants() []Occupant {
	out := make([]Occupant, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Occupant{ItemID: id, Position: c.occ[id]})
	}
	return out
}

// Len reports the number of stored occupants.
func (c *ContainerSpace) Len() int { return len(c.occ) }

// UsedVolume sums the volume of every occupant.
func (c *ContainerSpace) UsedVolume() int {
	total := 0
	for _, pos := range c.occ {
		total += pos.Volume()
	}
	return total
}

// Skyline returns candidate lower-back-left anchors: the origin plus, for
// every occupant, its right/back/top corner. Out-of-bounds and duplicate
// anchors are filtered; the result is sorted for determinism (callers
// iterate it in a fixed order when scoring candidates).
func (c *ContainerSpace) Skyline() []Anchor {
	seen := map[Anchor]struct{}{{0, 0, 0}: {}}
	anchors := []Anchor{{0, 0, 0}}

	add := func(a Anchor) {
		if a.WS > c.W || a.DS > c.D || a.HS > c.H {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		anchors = append(anchors, a)
	}

	for _, id := range c.order {
		pos := c.occ[id]
		add(Anchor{pos.WE, pos.DS, pos.HS})
		add(Anchor{pos.WS, pos.DE, pos.HS})
		add(Anchor{pos.WS, pos.DS, pos.HE})
	}

	sort.Slice(anchors, func(i, j int) bool {
		a, b := anchors[i], anchors[j]
		if a.DS != b.DS {
			return a.DS < b.DS
		}
		if a.HS != b.HS {
			return a.HS < b.HS
		}
		return a.WS < b.WS
	})
	return anchors
}
