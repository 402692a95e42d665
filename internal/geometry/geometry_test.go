package geometry

import "testing"

func TestCenter(t *testing.T) {
	b := Box{X1: 10, Y1: 20, X2: 20, Y2: 50}
	c := b.Center()
	if c.X != 15 || c.Y != 35 {
		t.Errorf("Center() = (%v, %v), want (15, 35)", c.X, c.Y)
	}

	// Odd extents land on half-pixel positions
	b = Box{X1: 0, Y1: 0, X2: 5, Y2: 3}
	c = b.Center()
	if c.X != 2.5 || c.Y != 1.5 {
		t.Errorf("Center() = (%v, %v), want (2.5, 1.5)", c.X, c.Y)
	}
}

func TestContainsStrict(t *testing.T) {
	b := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{X: 5, Y: 5}, true},
		{"on left edge", Point{X: 0, Y: 5}, false},
		{"on right edge", Point{X: 10, Y: 5}, false},
		{"on top edge", Point{X: 5, Y: 0}, false},
		{"on bottom edge", Point{X: 5, Y: 10}, false},
		{"outside", Point{X: 15, Y: 5}, false},
		{"just inside", Point{X: 0.5, Y: 9.5}, true},
	}

	for _, tt := range tests {
		if got := b.ContainsStrict(tt.p); got != tt.want {
			t.Errorf("%s: ContainsStrict(%v) = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}
}

func TestClampTo(t *testing.T) {
	b := Box{X1: -5, Y1: -5, X2: 120, Y2: 80}
	clamped, ok := b.ClampTo(100, 60)
	if !ok {
		t.Fatal("ClampTo returned not ok for a valid overlap")
	}
	want := Box{X1: 0, Y1: 0, X2: 100, Y2: 60}
	if clamped != want {
		t.Errorf("ClampTo = %+v, want %+v", clamped, want)
	}

	// Box fully outside the image collapses to an empty region
	b = Box{X1: 200, Y1: 200, X2: 300, Y2: 300}
	if _, ok := b.ClampTo(100, 100); ok {
		t.Error("ClampTo should report an unusable box when fully outside")
	}

	// Inverted box
	b = Box{X1: 50, Y1: 50, X2: 40, Y2: 60}
	if _, ok := b.ClampTo(100, 100); ok {
		t.Error("ClampTo should report an unusable box when inverted")
	}
}

func TestDistSq(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if d := DistSq(a, b); d != 25 {
		t.Errorf("DistSq = %v, want 25", d)
	}
	if d := DistSq(a, a); d != 0 {
		t.Errorf("DistSq of identical points = %v, want 0", d)
	}
}
