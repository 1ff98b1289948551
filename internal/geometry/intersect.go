package geometry

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb/planar"
)

// boundaryTolerance absorbs rounding when a computed point is tested against a
// polygon edge. Scaled by the magnitude of the coordinates involved.
const boundaryTolerance = 1e-9

// Location of a point relative to a polygon
type Location int

const (
	Outside Location = iota
	OnBoundary
	Inside
)

func (l Location) String() string {
	switch l {
	case Inside:
		return "inside"
	case OnBoundary:
		return "boundary"
	default:
		return "outside"
	}
}

// BlockMode selects which segment/obstacle contacts make a segment unusable
type BlockMode int

const (
	// BlockCovered rejects segments that cross an obstacle or are covered by it,
	// including segments running entirely along its boundary.
	BlockCovered BlockMode = iota
	// BlockInteriorOnly rejects only segments that reach an obstacle's interior,
	// so paths may slide along obstacle edges.
	BlockInteriorOnly
)

func (m BlockMode) String() string {
	if m == BlockInteriorOnly {
		return "interior"
	}
	return "covered"
}

// ParseBlockMode accepts "covered" or "interior"; empty selects BlockCovered.
func ParseBlockMode(s string) (BlockMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "covered":
		return BlockCovered, nil
	case "interior", "interior-only":
		return BlockInteriorOnly, nil
	default:
		return BlockCovered, fmt.Errorf("unknown block mode %q", s)
	}
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies in the bounding box of segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// SegmentsIntersect checks if closed segments p1p2 and q1q2 share any point,
// touching and collinear overlap included
func SegmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := direction(q1, q2, p1)
	d2 := direction(q1, q2, p2)
	d3 := direction(p1, p2, q1)
	d4 := direction(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear and touching cases
	if d1 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if d2 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, q2) {
		return true
	}

	return false
}

// SegmentsCross reports a proper crossing: the segments meet in exactly one
// point that is interior to both
func SegmentsCross(p1, p2, q1, q2 Point) bool {
	d1 := direction(q1, q2, p1)
	d2 := direction(q1, q2, p2)
	d3 := direction(p1, p2, q1)
	d4 := direction(p1, p2, q2)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// distanceToSegment is the distance from p to the closed segment ab
func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	length2 := ab.Dot(ab)
	if length2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / length2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}

func tolerance(points ...Point) float64 {
	scale := 1.0
	for _, p := range points {
		scale = math.Max(scale, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return boundaryTolerance * scale
}

// Locate classifies a point as inside, on the boundary of, or outside a polygon
func Locate(point Point, polygon Polygon) Location {
	n := len(polygon.Vertices)
	if n < 3 {
		return Outside
	}

	for i := 0; i < n; i++ {
		a, b := polygon.Edge(i)
		if distanceToSegment(point, a, b) <= tolerance(point, a, b) {
			return OnBoundary
		}
	}

	if planar.RingContains(polygon.Ring(), point.Orb()) {
		return Inside
	}
	return Outside
}

// SegmentBlocked checks whether segment ab is unusable because of polygon.
//
// The segment is split at every point where it meets the boundary. It is
// blocked when any piece lies in the interior (the segment crosses or passes
// through the polygon), or, under BlockCovered, when every piece lies on the
// boundary (the segment is covered by the polygon). Touching at a single point
// is never blocking.
func SegmentBlocked(a, b Point, polygon Polygon, mode BlockMode) bool {
	n := len(polygon.Vertices)
	if n < 3 || a.Equal(b) {
		return false
	}

	d := b.Sub(a)
	length2 := d.Dot(d)
	tol := tolerance(a, b)

	params := []float64{0, 1}
	for i := 0; i < n; i++ {
		u, v := polygon.Edge(i)

		if distanceToSegment(u, a, b) <= tol {
			params = append(params, clamp01(u.Sub(a).Dot(d)/length2))
		}

		if SegmentsCross(a, b, u, v) {
			e := v.Sub(u)
			params = append(params, clamp01(u.Sub(a).Cross(e)/d.Cross(e)))
		}
	}
	sort.Float64s(params)

	allBoundary := true
	for i := 1; i < len(params); i++ {
		t0, t1 := params[i-1], params[i]
		if t1 <= t0 {
			continue
		}
		mid := (t0 + t1) / 2
		switch Locate(Point{X: a.X + mid*d.X, Y: a.Y + mid*d.Y}, polygon) {
		case Inside:
			return true
		case Outside:
			allBoundary = false
		}
	}

	return mode == BlockCovered && allBoundary
}

// IsPathClear checks a straight path between two points against every obstacle
func IsPathClear(p1, p2 Point, obstacles []Polygon, mode BlockMode) bool {
	for _, obstacle := range obstacles {
		if SegmentBlocked(p1, p2, obstacle, mode) {
			return false
		}
	}
	return true
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
