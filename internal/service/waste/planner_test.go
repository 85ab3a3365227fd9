package waste

import (
	"testing"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service/retrieval"
)

func wasteItem(id string, mass float64, priority int, containerID string, pos cargo.Position) *cargo.Item {
	p := pos
	return &cargo.Item{
		ItemID:      id,
		Name:        id,
		MassKg:      mass,
		Priority:    priority,
		Status:      cargo.StatusWaste,
		WasteReason: cargo.ReasonExpired,
		ContainerID: containerID,
		Position:    &p,
	}
}

func TestIdentifyReturnsOnlyWasteSortedByID(t *testing.T) {
	registry := map[string]*cargo.Item{
		"z": wasteItem("z", 1, 50, "c1", cargo.NewPosition(0, 0, 0, 1, 1, 1)),
		"a": wasteItem("a", 1, 50, "c1", cargo.NewPosition(1, 0, 0, 1, 1, 1)),
		"pending": {ItemID: "pending", Status: cargo.StatusPending},
	}

	got := Identify(registry)
	if len(got) != 2 {
		t.Fatalf("len(Identify()) = %d, want 2", len(got))
	}
	if got[0].ItemID != "a" || got[1].ItemID != "z" {
		t.Errorf("Identify() order = [%s %s], want [a z]", got[0].ItemID, got[1].ItemID)
	}
}

func TestBuildReturnPlanSelectsAllUnderBudget(t *testing.T) {
	c := cargo.NewContainerSpace("c1", "Zone A", 10, 10, 10)
	dock := cargo.NewContainerSpace("dock", "Zone A", 10, 10, 10)
	containers := map[string]*cargo.ContainerSpace{"c1": c, "dock": dock}

	a := wasteItem("a", 2, 50, "c1", cargo.NewPosition(0, 0, 0, 1, 1, 1))
	b := wasteItem("b", 3, 50, "c1", cargo.NewPosition(2, 0, 0, 1, 1, 1))
	c.Place("a", *a.Position)
	c.Place("b", *b.Position)
	registry := map[string]*cargo.Item{"a": a, "b": b}

	p := New(nil, retrieval.New(nil))
	plan, err := p.BuildReturnPlan("dock", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100, registry, containers)
	if err != nil {
		t.Fatalf("BuildReturnPlan returned error: %v", err)
	}
	if len(plan.Manifest.ReturnItems) != 2 {
		t.Fatalf("len(ReturnItems) = %d, want 2", len(plan.Manifest.ReturnItems))
	}
	if plan.Manifest.TotalWeight != 5 {
		t.Errorf("TotalWeight = %v, want 5", plan.Manifest.TotalWeight)
	}
}

func TestBuildReturnPlanRespectsWeightCapByPriority(t *testing.T) {
	c := cargo.NewContainerSpace("c1", "Zone A", 10, 10, 10)
	dock := cargo.NewContainerSpace("dock", "Zone A", 10, 10, 10)
	containers := map[string]*cargo.ContainerSpace{"c1": c, "dock": dock}

	lowPri := wasteItem("low", 8, 10, "c1", cargo.NewPosition(0, 0, 0, 1, 1, 1))
	highPri := wasteItem("high", 8, 90, "c1", cargo.NewPosition(2, 0, 0, 1, 1, 1))
	c.Place("low", *lowPri.Position)
	c.Place("high", *highPri.Position)
	registry := map[string]*cargo.Item{"low": lowPri, "high": highPri}

	p := New(nil, retrieval.New(nil))
	// Budget fits exactly one of the two 8kg items.
	plan, err := p.BuildReturnPlan("dock", time.Now(), 10, registry, containers)
	if err != nil {
		t.Fatalf("BuildReturnPlan returned error: %v", err)
	}
	if len(plan.Manifest.ReturnItems) != 1 {
		t.Fatalf("len(ReturnItems) = %d, want 1", len(plan.Manifest.ReturnItems))
	}
	if plan.Manifest.ReturnItems[0].ItemID != "high" {
		t.Errorf("selected item = %q, want high (higher priority wins under a binding cap)", plan.Manifest.ReturnItems[0].ItemID)
	}
}

func TestBuildReturnPlanRejectsUnknownContainer(t *testing.T) {
	p := New(nil, retrieval.New(nil))
	_, err := p.BuildReturnPlan("missing", time.Now(), 10, map[string]*cargo.Item{}, map[string]*cargo.ContainerSpace{})
	if err != cargo.ErrNotFound {
		t.Errorf("BuildReturnPlan() error = %v, want ErrNotFound", err)
	}
}

func TestBuildReturnPlanRejectsNegativeWeight(t *testing.T) {
	dock := cargo.NewContainerSpace("dock", "Zone A", 10, 10, 10)
	containers := map[string]*cargo.ContainerSpace{"dock": dock}

	p := New(nil, retrieval.New(nil))
	_, err := p.BuildReturnPlan("dock", time.Now(), -1, map[string]*cargo.Item{}, containers)
	if err != cargo.ErrInvalidArgs {
		t.Errorf("BuildReturnPlan() error = %v, want ErrInvalidArgs", err)
	}
}

func TestUndockDisposesAllOccupants(t *testing.T) {
	c := cargo.NewContainerSpace("c1", "Zone A", 10, 10, 10)
	a := wasteItem("a", 1, 50, "c1", cargo.NewPosition(0, 0, 0, 1, 1, 1))
	b := wasteItem("b", 1, 50, "c1", cargo.NewPosition(2, 0, 0, 1, 1, 1))
	c.Place("a", *a.Position)
	c.Place("b", *b.Position)
	containers := map[string]*cargo.ContainerSpace{"c1": c}
	registry := map[string]*cargo.Item{"a": a, "b": b}

	count, err := Undock("c1", containers, registry)
	if err != nil {
		t.Fatalf("Undock returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if c.Len() != 0 {
		t.Errorf("container still has %d occupants after undock", c.Len())
	}
	if len(registry) != 0 {
		t.Errorf("registry still has %d entries after undock", len(registry))
	}
	if a.Status != cargo.StatusDisposed || b.Status != cargo.StatusDisposed {
		t.Errorf("items not marked disposed: a=%s b=%s", a.Status, b.Status)
	}
}

func TestUndockUnknownContainer(t *testing.T) {
	_, err := Undock("missing", map[string]*cargo.ContainerSpace{}, map[string]*cargo.Item{})
	if err != cargo.ErrNotFound {
		t.Errorf("Undock() error = %v, want ErrNotFound", err)
	}
}
