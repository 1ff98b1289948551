package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a position in the workspace frame
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Equal reports exact coordinate equality
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// EqualWithin reports whether both coordinates differ by at most tolerance
func (p Point) EqualWithin(other Point, tolerance float64) bool {
	return math.Abs(p.X-other.X) <= tolerance && math.Abs(p.Y-other.Y) <= tolerance
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Cross is the z component of the cross product of p and other as vectors
func (p Point) Cross(other Point) float64 {
	return p.X*other.Y - p.Y*other.X
}

func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Orb converts the point to its orb representation
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb point
func FromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

// PointsEqual checks exact equality of two points; no tolerance is applied
func PointsEqual(a, b Point) bool {
	return a.Equal(b)
}
