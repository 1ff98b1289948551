package geometry

import "sort"

// cross calculates the cross product of vectors (b-a) and (c-a)
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ConvexHull returns the convex hull of a set of points using Andrew's
// monotone chain. The result is counter-clockwise without collinear vertices.
// The input slice is not modified.
func ConvexHull(points []Point) []Point {
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X == sorted[j].X {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	sorted = dedupe(sorted)
	if len(sorted) < 3 {
		return sorted
	}

	lower := make([]Point, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// LowestVertex returns the index of the vertex with the smallest Y, ties
// broken by smallest X
func LowestVertex(vertices []Point) int {
	lowest := 0
	for i := 1; i < len(vertices); i++ {
		v, l := vertices[i], vertices[lowest]
		if v.Y < l.Y || (v.Y == l.Y && v.X < l.X) {
			lowest = i
		}
	}
	return lowest
}
