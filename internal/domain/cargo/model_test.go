package cargo

import (
	"errors"
	"testing"
	"time"
)

func validItem() *Item {
	return &Item{
		ItemID:        "itm1",
		Name:          "Oxygen Cylinder",
		W:             2,
		D:             2,
		H:             2,
		MassKg:        5,
		Priority:      50,
		UsageLimit:    3,
		RemainingUses: 3,
		PreferredZone: "Airlock",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr bool
	}{
		{"valid item", func(i *Item) {}, false},
		{"empty id", func(i *Item) { i.ItemID = "" }, true},
		{"negative width", func(i *Item) { i.W = -1 }, true},
		{"negative mass", func(i *Item) { i.MassKg = -1 }, true},
		{"priority too low", func(i *Item) { i.Priority = 0 }, true},
		{"priority too high", func(i *Item) { i.Priority = 101 }, true},
		{"negative usage limit", func(i *Item) { i.UsageLimit = -1 }, true},
		{"remaining exceeds limit", func(i *Item) { i.RemainingUses = i.UsageLimit + 1 }, true},
		{"remaining negative", func(i *Item) { i.RemainingUses = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)
			err := item.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want wrapped ErrValidation", err)
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	item := validItem()
	if item.IsExpired(now) {
		t.Errorf("item with nil expiry should never be expired")
	}

	past := now.Add(-time.Hour)
	item.ExpiryDate = &past
	if !item.IsExpired(now) {
		t.Errorf("item with expiry before clock should be expired")
	}

	future := now.Add(time.Hour)
	item.ExpiryDate = &future
	if item.IsExpired(now) {
		t.Errorf("item with expiry after clock should not be expired")
	}

	item.ExpiryDate = &now
	if !item.IsExpired(now) {
		t.Errorf("item expiring exactly at clock should be expired")
	}
}

func TestIsDepleted(t *testing.T) {
	item := validItem()
	if item.IsDepleted() {
		t.Errorf("item with remaining uses should not be depleted")
	}
	item.RemainingUses = 0
	if !item.IsDepleted() {
		t.Errorf("item with zero remaining uses should be depleted")
	}
}

func TestVolume(t *testing.T) {
	item := validItem()
	if got, want := item.Volume(), 8; got != want {
		t.Errorf("Volume() = %d, want %d", got, want)
	}
}
