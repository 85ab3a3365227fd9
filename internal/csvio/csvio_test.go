package csvio

import (
	"errors"
	"strings"
	"testing"

	"github.com/cargostow/stowage/internal/domain/cargo"
)

func TestImportItemsParsesValidRows(t *testing.T) {
	csv := "Item ID,Name,Width,Depth,Height,Mass,Priority,Usage Limit,Preferred Zone,Expiry Date\n" +
		"001,Oxygen Cylinder,2,2,2,5,80,3,Airlock,2026-03-01\n"

	result, err := ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems returned error: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %+v, want none", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(result.Items))
	}
	item := result.Items[0]
	if item.ItemID != "001" || item.Name != "Oxygen Cylinder" {
		t.Errorf("item = %+v, want id=001 name=Oxygen Cylinder", item)
	}
	if item.W != 2 || item.D != 2 || item.H != 2 {
		t.Errorf("dimensions = %d,%d,%d, want 2,2,2", item.W, item.D, item.H)
	}
	if item.MassKg != 5 || item.Priority != 80 || item.UsageLimit != 3 {
		t.Errorf("mass/priority/usageLimit = %v,%v,%v, want 5,80,3", item.MassKg, item.Priority, item.UsageLimit)
	}
	if item.RemainingUses != 3 {
		t.Errorf("RemainingUses = %d, want 3 (seeded from Usage Limit)", item.RemainingUses)
	}
	if item.ExpiryDate == nil {
		t.Fatal("ExpiryDate = nil, want parsed date")
	}
}

func TestImportItemsAppliesDefaults(t *testing.T) {
	csv := "Item ID,Name,Width,Depth,Height\n" +
		"001,Wrench,1,1,1\n"

	result, err := ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems returned error: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %+v, want none", result.Errors)
	}
	item := result.Items[0]
	if item.MassKg != 0 {
		t.Errorf("MassKg = %v, want default 0", item.MassKg)
	}
	if item.Priority != 50 {
		t.Errorf("Priority = %d, want default 50", item.Priority)
	}
	if item.UsageLimit != 1 {
		t.Errorf("UsageLimit = %d, want default 1", item.UsageLimit)
	}
	if item.PreferredZone != "General" {
		t.Errorf("PreferredZone = %q, want default General", item.PreferredZone)
	}
	if item.ExpiryDate != nil {
		t.Errorf("ExpiryDate = %v, want nil", item.ExpiryDate)
	}
}

func TestImportItemsAcceptsNoneAndDateOnlyExpiry(t *testing.T) {
	csv := "Item ID,Name,Width,Depth,Height,Expiry Date\n" +
		"001,A,1,1,1,none\n" +
		"002,B,1,1,1,2026-05-01\n"

	result, err := ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems returned error: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %+v, want none", result.Errors)
	}
	if result.Items[0].ExpiryDate != nil {
		t.Errorf("item 001 ExpiryDate = %v, want nil for %q", result.Items[0].ExpiryDate, "none")
	}
	if result.Items[1].ExpiryDate == nil {
		t.Errorf("item 002 ExpiryDate = nil, want parsed date-only value")
	}
}

func TestImportItemsRejectsMissingRequiredColumn(t *testing.T) {
	csv := "Item ID,Name,Width,Depth\n001,A,1,1\n"
	_, err := ImportItems(strings.NewReader(csv))
	if !errors.Is(err, cargo.ErrValidation) {
		t.Errorf("ImportItems() error = %v, want ErrValidation for a missing Height column", err)
	}
}

func TestImportItemsCollectsPerRowErrorsWithOneBasedIndex(t *testing.T) {
	csv := "Item ID,Name,Width,Depth,Height\n" +
		"001,Good,1,1,1\n" +
		",Bad,1,1,1\n" +
		"003,AlsoGood,2,2,2\n"

	result, err := ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems returned error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2 (bad row skipped, not aborting)", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("Errors[0].Row = %d, want 2 (header is row 0, first data row is row 1)", result.Errors[0].Row)
	}
}

func TestImportItemsRejectsMalformedWidth(t *testing.T) {
	csv := "Item ID,Name,Width,Depth,Height\n001,A,notanumber,1,1\n"
	result, err := ImportItems(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportItems returned error: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
}

func TestExportArrangementWritesOnlyStoredItems(t *testing.T) {
	pos := cargo.NewPosition(0, 0, 0, 2, 2, 2)
	stored := &cargo.Item{ItemID: "i1", ContainerID: "c1", Status: cargo.StatusStored, Position: &pos}
	pending := &cargo.Item{ItemID: "i2", Status: cargo.StatusPending}

	var buf strings.Builder
	if err := ExportArrangement(&buf, []*cargo.Item{stored, pending}); err != nil {
		t.Fatalf("ExportArrangement returned error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "i1") {
		t.Errorf("row = %q, want it to reference i1", lines[1])
	}
	if strings.Contains(out, "i2") {
		t.Errorf("output contains non-stored item i2: %q", out)
	}
}
