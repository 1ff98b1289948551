package cspace

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
)

// ErrNegativeRadius is returned when the robot radius is negative or not a number.
var ErrNegativeRadius = errors.New("robot radius must be a non-negative number")

// Diamond returns the robot footprint: a rhombus with vertices at distance r
// from its center along both axes
func Diamond(r float64) geometry.Polygon {
	return geometry.Polygon{Vertices: []geometry.Point{
		{X: 0, Y: -r},
		{X: r, Y: 0},
		{X: 0, Y: r},
		{X: -r, Y: 0},
	}}
}

// Inflate computes the configuration-space obstacle of a diamond robot of
// radius r: the Minkowski sum of the obstacle and Diamond(r).
//
// Orientation is normalized once here. A non-convex obstacle is replaced by its
// convex hull so the merge below stays valid.
func Inflate(obstacle geometry.Polygon, r float64) (geometry.Polygon, error) {
	if err := checkRadius(r); err != nil {
		return geometry.Polygon{}, err
	}

	poly, err := prepare(obstacle)
	if err != nil {
		return geometry.Polygon{}, err
	}
	if r == 0 {
		return poly, nil
	}

	return geometry.Polygon{Vertices: mergeConvex(poly.Vertices, Diamond(r).Vertices)}, nil
}

// prepare validates, orients and convexifies an obstacle
func prepare(obstacle geometry.Polygon) (geometry.Polygon, error) {
	clean, err := geometry.NewPolygon(obstacle.Vertices)
	if err != nil {
		return geometry.Polygon{}, err
	}

	poly := geometry.NormalizeOrientation(clean)
	if geometry.SignedArea(poly) == 0 {
		return geometry.Polygon{}, &geometry.PolygonError{Index: -1, Reason: "vertices are collinear"}
	}

	if !geometry.IsConvex(poly) {
		poly = geometry.Polygon{Vertices: geometry.ConvexHull(poly.Vertices)}
	}
	return poly, nil
}

// mergeConvex walks the edge sequences of two counter-clockwise convex polygons
// in increasing angular order. Each step emits the sum of the current vertices,
// then the cross product of the current edges decides which cursor advances:
// positive advances the obstacle, negative the robot, zero both.
func mergeConvex(obstacle, robot []geometry.Point) []geometry.Point {
	p := rotate(obstacle, geometry.LowestVertex(obstacle))
	q := rotate(robot, geometry.LowestVertex(robot))
	n, m := len(p), len(q)

	// Wrap the first vertices so the closing edge directions are available
	p = append(p, p[0], p[1])
	q = append(q, q[0], q[1])

	sum := make([]geometry.Point, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		sum = append(sum, p[i].Add(q[j]))

		c := p[i+1].Sub(p[i]).Cross(q[j+1].Sub(q[j]))
		switch {
		case c > 0 && i < n:
			i++
		case c < 0 && j < m:
			j++
		default:
			if i < n {
				i++
			}
			if j < m {
				j++
			}
		}
	}

	// Both cursors stop exactly at their cycle end, so there is no overshoot to
	// trim; only drop repeats of the first vertex and zero-length edges.
	out, err := geometry.NewPolygon(sum)
	if err != nil {
		return sum
	}
	return out.Vertices
}

func rotate(vertices []geometry.Point, start int) []geometry.Point {
	out := make([]geometry.Point, 0, len(vertices)+2)
	out = append(out, vertices[start:]...)
	return append(out, vertices[:start]...)
}

// InflateAll inflates every obstacle, stopping at the first invalid one
func InflateAll(obstacles []geometry.Polygon, r float64, logger *slog.Logger) ([]geometry.Polygon, error) {
	logger = logging.OrNop(logger)
	if err := checkRadius(r); err != nil {
		return nil, err
	}

	inflated := make([]geometry.Polygon, 0, len(obstacles))
	for i, obstacle := range obstacles {
		if len(obstacle.Vertices) >= 3 && !geometry.IsConvex(geometry.NormalizeOrientation(obstacle)) {
			logger.Debug("obstacle is not convex, inflating its convex hull", "obstacle", i)
		}

		poly, err := Inflate(obstacle, r)
		if err != nil {
			return nil, fmt.Errorf("inflate obstacle %d: %w", i, geometry.WithIndex(err, i))
		}
		inflated = append(inflated, poly)
	}

	logger.Debug("obstacles inflated", "count", len(inflated), "radius", r)
	return inflated, nil
}

func checkRadius(r float64) error {
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: got %v", ErrNegativeRadius, r)
	}
	return nil
}
