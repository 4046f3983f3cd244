package grimdark

import "math"

// Board dimensions in inches. All engine distances are inches.
const (
	BoardWidth  = 72.0
	BoardHeight = 48.0

	// ModelDiameter is the footprint of a single model token.
	ModelDiameter = 1.0

	// ObjectiveRadius is the contest range around an objective marker.
	ObjectiveRadius = 3.0

	// overlapTolerance is the footprint overlap ignored before a post-charge
	// push-back triggers, so contact noise doesn't oscillate positions.
	overlapTolerance = 0.1
)

// Point is a position on the board in inches.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the straight-line distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Dist2 returns the squared distance, for comparisons that don't need the root.
func Dist2(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Toward returns the point `dist` inches from `from` along the line to `to`.
// If from and to coincide, from is returned unchanged.
func Toward(from, to Point, dist float64) Point {
	d := Dist(from, to)
	if d == 0 {
		return from
	}
	t := dist / d
	return Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
}

// SegDist returns the distance from point p to the segment a-b.
func SegDist(p, a, b Point) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Dist(p, Point{X: a.X + t*abx, Y: a.Y + t*aby})
}

// ClampToBoard keeps a point inside the playable area, inset by margin.
func ClampToBoard(p Point, margin float64) Point {
	if p.X < margin {
		p.X = margin
	}
	if p.X > BoardWidth-margin {
		p.X = BoardWidth - margin
	}
	if p.Y < margin {
		p.Y = margin
	}
	if p.Y > BoardHeight-margin {
		p.Y = BoardHeight - margin
	}
	return p
}

// Rect is an axis-aligned terrain obstacle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the rect's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside or on the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Expanded returns the rect grown by m on every side.
func (r Rect) Expanded(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// IntersectsSegment reports whether the segment a-b crosses or touches the rect.
func (r Rect) IntersectsSegment(a, b Point) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	corners := [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
	for i := 0; i < 4; i++ {
		if segmentsCross(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// segmentsCross reports whether segments p1-p2 and p3-p4 intersect.
func segmentsCross(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(p3, p4, p1)) ||
		(d2 == 0 && onSegment(p3, p4, p2)) ||
		(d3 == 0 && onSegment(p1, p2, p3)) ||
		(d4 == 0 && onSegment(p1, p2, p4))
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
