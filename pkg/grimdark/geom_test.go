package grimdark

import "testing"

func TestDist(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Point{0, 0}, Point{3, 4}, 5},
		{Point{1, 1}, Point{1, 1}, 0},
		{Point{-2, 0}, Point{2, 0}, 4},
	}
	for _, tt := range tests {
		if got := Dist(tt.a, tt.b); !almostEq(got, tt.want) {
			t.Errorf("Dist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := Dist2(tt.a, tt.b); !almostEq(got, tt.want*tt.want) {
			t.Errorf("Dist2(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want*tt.want)
		}
	}
}

func TestToward(t *testing.T) {
	from := Point{X: 0, Y: 0}
	to := Point{X: 10, Y: 0}

	p := Toward(from, to, 4)
	if !almostEq(p.X, 4) || !almostEq(p.Y, 0) {
		t.Errorf("Toward 4 = %v, want (4,0)", p)
	}

	// Negative distance moves away from the target
	p = Toward(from, to, -2)
	if !almostEq(p.X, -2) || !almostEq(p.Y, 0) {
		t.Errorf("Toward -2 = %v, want (-2,0)", p)
	}

	// Overshooting is allowed; the caller caps the distance
	p = Toward(from, to, 15)
	if !almostEq(p.X, 15) {
		t.Errorf("Toward 15 = %v, want (15,0)", p)
	}

	// Coincident points return the start unchanged
	p = Toward(from, from, 5)
	if p != from {
		t.Errorf("Toward from coincident points = %v, want %v", p, from)
	}
}

func TestSegDist(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}
	// Perpendicular to the middle, beyond each end, on an endpoint, on the
	// segment itself.
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{5, 3}, 3},
		{Point{-4, 0}, 4},
		{Point{13, 4}, 5},
		{Point{10, 0}, 0},
		{Point{2, 0}, 0},
	}
	for _, tt := range tests {
		if got := SegDist(tt.p, a, b); !almostEq(got, tt.want) {
			t.Errorf("SegDist(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// Degenerate segment falls back to point distance
	if got := SegDist(Point{3, 4}, a, a); !almostEq(got, 5) {
		t.Errorf("SegDist to degenerate segment = %v, want 5", got)
	}
}

func TestClampToBoard(t *testing.T) {
	tests := []struct {
		p      Point
		margin float64
		want   Point
	}{
		{Point{-5, 24}, 1, Point{1, 24}},
		{Point{100, 24}, 2, Point{BoardWidth - 2, 24}},
		{Point{36, -3}, 1, Point{36, 1}},
		{Point{36, 90}, 1, Point{36, BoardHeight - 1}},
		{Point{36, 24}, 1, Point{36, 24}},
	}
	for _, tt := range tests {
		if got := ClampToBoard(tt.p, tt.margin); got != tt.want {
			t.Errorf("ClampToBoard(%v, %v) = %v, want %v", tt.p, tt.margin, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 4, H: 6}
	if !r.Contains(Point{12, 13}) {
		t.Error("interior point should be contained")
	}
	if !r.Contains(Point{10, 10}) {
		t.Error("corner should be contained")
	}
	if r.Contains(Point{14.1, 13}) {
		t.Error("point right of rect should not be contained")
	}
	if c := r.Center(); !almostEq(c.X, 12) || !almostEq(c.Y, 13) {
		t.Errorf("Center() = %v, want (12,13)", c)
	}
}

func TestRectExpanded(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 4, H: 6}.Expanded(2)
	want := Rect{X: 8, Y: 8, W: 8, H: 10}
	if r != want {
		t.Errorf("Expanded = %v, want %v", r, want)
	}
}

func TestRectIntersectsSegment(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 4, H: 4}
	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"through the middle", Point{0, 12}, Point{20, 12}, true},
		{"endpoint inside", Point{11, 11}, Point{50, 50}, true},
		{"misses above", Point{0, 20}, Point{20, 20}, false},
		{"misses short", Point{0, 12}, Point{5, 12}, false},
		{"grazes an edge", Point{10, 0}, Point{10, 30}, true},
		{"fully inside", Point{11, 11}, Point{13, 13}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IntersectsSegment(tt.a, tt.b); got != tt.want {
				t.Errorf("IntersectsSegment(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
