package engine

import "testing"

func TestH2HDefaultsToZeroPair(t *testing.T) {
	tracker := NewH2HTracker()

	a, b := tracker.Get(1, 2)
	if a != 0 || b != 0 {
		t.Errorf("Get(1,2) = (%d,%d), want (0,0)", a, b)
	}
	if len(tracker.pairs) != 0 {
		t.Errorf("read created %d entries, want 0", len(tracker.pairs))
	}
}

func TestH2HRelativeToArguments(t *testing.T) {
	tracker := NewH2HTracker()

	tracker.Update(7, 3) // 7 beats 3
	tracker.Update(7, 3)
	tracker.Update(3, 7) // 3 beats 7

	tests := []struct {
		name         string
		a, b         int64
		wantA, wantB int
	}{
		{"Higher id first", 7, 3, 2, 1},
		{"Lower id first", 3, 7, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := tracker.Get(tt.a, tt.b)
			if gotA != tt.wantA || gotB != tt.wantB {
				t.Errorf("Get(%d,%d) = (%d,%d), want (%d,%d)", tt.a, tt.b, gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestH2HPairsAreIndependent(t *testing.T) {
	tracker := NewH2HTracker()

	tracker.Update(1, 2)
	tracker.Update(1, 3)

	if a, b := tracker.Get(2, 3); a != 0 || b != 0 {
		t.Errorf("Get(2,3) = (%d,%d), want (0,0) for a pair that never met", a, b)
	}
	if a, _ := tracker.Get(1, 2); a != 1 {
		t.Errorf("Get(1,2) first = %d, want 1", a)
	}
	if a, _ := tracker.Get(1, 3); a != 1 {
		t.Errorf("Get(1,3) first = %d, want 1", a)
	}
}
