package cargo

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want bool
	}{
		{
			name: "disjoint along width",
			a:    NewPosition(0, 0, 0, 5, 5, 5),
			b:    NewPosition(5, 0, 0, 5, 5, 5),
			want: false,
		},
		{
			name: "touching at a corner is not overlapping",
			a:    NewPosition(0, 0, 0, 5, 5, 5),
			b:    NewPosition(5, 5, 5, 5, 5, 5),
			want: false,
		},
		{
			name: "overlapping on all three axes",
			a:    NewPosition(0, 0, 0, 5, 5, 5),
			b:    NewPosition(3, 3, 3, 5, 5, 5),
			want: true,
		},
		{
			name: "identical boxes",
			a:    NewPosition(1, 1, 1, 2, 2, 2),
			b:    NewPosition(1, 1, 1, 2, 2, 2),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestOrientationsDedup(t *testing.T) {
	tests := []struct {
		name      string
		w, d, h   int
		wantCount int
	}{
		{"all distinct", 1, 2, 3, 6},
		{"two equal", 2, 2, 3, 3},
		{"cube", 4, 4, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orientations(tt.w, tt.d, tt.h)
			if len(got) != tt.wantCount {
				t.Errorf("Orientations(%d,%d,%d) returned %d variants, want %d", tt.w, tt.d, tt.h, len(got), tt.wantCount)
			}
			for _, o := range got {
				vol := o.W * o.D * o.H
				if want := tt.w * tt.d * tt.h; vol != want {
					t.Errorf("orientation %+v has volume %d, want %d", o, vol, want)
				}
			}
		})
	}
}

func TestContainerSpacePlaceAndRemoveRoundTrip(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	pos := NewPosition(0, 0, 0, 5, 5, 5)

	if err := c.Place("item1", pos); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	got, err := c.Remove("item1")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got != pos {
		t.Errorf("Remove returned %v, want %v", got, pos)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after remove = %d, want 0", c.Len())
	}
}

func TestContainerSpacePlaceRejectsOverlap(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	if err := c.Place("item1", NewPosition(0, 0, 0, 5, 5, 5)); err != nil {
		t.Fatalf("first Place failed: %v", err)
	}
	err := c.Place("item2", NewPosition(2, 2, 2, 5, 5, 5))
	if err != ErrConflict {
		t.Errorf("overlapping Place returned %v, want ErrConflict", err)
	}
}

func TestContainerSpacePlaceRejectsOutOfBounds(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	err := c.Place("item1", NewPosition(8, 0, 0, 5, 5, 5))
	if err != ErrConflict {
		t.Errorf("out-of-bounds Place returned %v, want ErrConflict", err)
	}
}

func TestContainerSpacePlaceRejectsDuplicateID(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	if err := c.Place("item1", NewPosition(0, 0, 0, 2, 2, 2)); err != nil {
		t.Fatalf("first Place failed: %v", err)
	}
	err := c.Place("item1", NewPosition(5, 5, 5, 2, 2, 2))
	if err != ErrDuplicate {
		t.Errorf("duplicate-id Place returned %v, want ErrDuplicate", err)
	}
}

func TestContainerSpaceRemoveNotFound(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	if _, err := c.Remove("missing"); err != ErrNotFound {
		t.Errorf("Remove on empty space returned %v, want ErrNotFound", err)
	}
}

func TestSkylineIncludesOriginAndOccupantCorners(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 10, 10, 10)
	if err := c.Place("item1", NewPosition(0, 0, 0, 4, 4, 4)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	anchors := c.Skyline()
	wantAnchors := []Anchor{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}, {0, 0, 4}}
	for _, want := range wantAnchors {
		found := false
		for _, a := range anchors {
			if a == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Skyline() = %+v, missing anchor %+v", anchors, want)
		}
	}
}

func TestSkylineFiltersOutOfBounds(t *testing.T) {
	c := NewContainerSpace("c1", "Zone A", 5, 5, 5)
	if err := c.Place("item1", NewPosition(0, 0, 0, 5, 1, 1)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	for _, a := range c.Skyline() {
		if a.WS > c.W || a.DS > c.D || a.HS > c.H {
			t.Errorf("Skyline() returned out-of-bounds anchor %+v for container %dx%dx%d", a, c.W, c.D, c.H)
		}
	}
}
