package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Polygon is an obstacle outline stored as an open ring: the last vertex
// implicitly connects back to the first.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon builds a polygon from a vertex sequence. Consecutive duplicates and
// a closing vertex equal to the first are dropped.
func NewPolygon(vertices []Point) (Polygon, error) {
	cleaned := dedupe(vertices)
	if distinct := countDistinct(cleaned); distinct < 3 {
		return Polygon{}, &PolygonError{
			Index:  -1,
			Reason: fmt.Sprintf("need at least 3 distinct vertices, got %d", distinct),
		}
	}
	return Polygon{Vertices: cleaned}, nil
}

// Validate checks the polygon has at least 3 distinct vertices
func (p Polygon) Validate() error {
	_, err := NewPolygon(p.Vertices)
	return err
}

// Edge returns the i-th boundary edge
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// Ring returns the closed orb ring of the polygon
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, v.Orb())
	}
	if len(p.Vertices) > 0 {
		ring = append(ring, p.Vertices[0].Orb())
	}
	return ring
}

// PolygonFromRing converts an orb ring, closed or not
func PolygonFromRing(ring orb.Ring) (Polygon, error) {
	vertices := make([]Point, 0, len(ring))
	for _, p := range ring {
		vertices = append(vertices, FromOrb(p))
	}
	return NewPolygon(vertices)
}

// Bounds returns the axis-aligned bounding box of the polygon
func (p Polygon) Bounds() orb.Bound {
	return p.Ring().Bound()
}

// SignedArea is positive for counter-clockwise polygons
func SignedArea(p Polygon) float64 {
	n := len(p.Vertices)
	area := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		area += a.Cross(b)
	}
	return area / 2
}

// NormalizeOrientation returns a copy of the polygon wound counter-clockwise.
// Calling it on an already normalized polygon returns the same vertex order.
func NormalizeOrientation(p Polygon) Polygon {
	if len(p.Vertices) < 3 {
		return Polygon{Vertices: append([]Point(nil), p.Vertices...)}
	}

	ring := p.Ring()
	if ring.Orientation() == orb.CW {
		ring.Reverse()
	}

	vertices := make([]Point, 0, len(ring)-1)
	for _, v := range ring[:len(ring)-1] {
		vertices = append(vertices, FromOrb(v))
	}
	return Polygon{Vertices: vertices}
}

// IsConvex reports whether every turn along the boundary has the same sign.
// Collinear vertices are allowed.
func IsConvex(p Polygon) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}

	sign := 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		turn := b.Sub(a).Cross(c.Sub(b))
		if turn == 0 {
			continue
		}
		if sign == 0 {
			sign = turn
			continue
		}
		if (turn > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

// dedupe drops consecutive duplicates and a trailing copy of the first vertex
func dedupe(vertices []Point) []Point {
	out := make([]Point, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && out[len(out)-1].Equal(v) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0]) {
		out = out[:len(out)-1]
	}
	return out
}

func countDistinct(vertices []Point) int {
	seen := make(map[Point]struct{}, len(vertices))
	for _, v := range vertices {
		seen[v] = struct{}{}
	}
	return len(seen)
}
