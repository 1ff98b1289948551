package cspace

import (
	"cspace-planner/internal/geometry"
)

// PruneContained removes polygons that are fully contained within other polygons.
// Of two identical polygons the first is kept. Contained obstacles add vertices
// to the visibility graph without changing which space is free.
func PruneContained(polygons []geometry.Polygon) []geometry.Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	contained := make([]bool, len(polygons))
	for i := 0; i < len(polygons); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(polygons); j++ {
			if i == j || contained[j] {
				continue
			}

			// Check if polygon i is contained in polygon j
			if isContainedIn(polygons[i], polygons[j]) && !(j > i && isContainedIn(polygons[j], polygons[i])) {
				contained[i] = true
				break
			}

			// Check if polygon j is contained in polygon i
			if isContainedIn(polygons[j], polygons[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]geometry.Polygon, 0, len(polygons))
	for i, poly := range polygons {
		if !contained[i] {
			result = append(result, poly)
		}
	}
	return result
}

// isContainedIn checks if polygon a lies within convex polygon b, boundary included
func isContainedIn(a, b geometry.Polygon) bool {
	if len(a.Vertices) == 0 || len(b.Vertices) == 0 {
		return false
	}

	// Quick bounding box check first
	ab, bb := a.Bounds(), b.Bounds()
	if !bb.Contains(ab.Min) || !bb.Contains(ab.Max) {
		return false
	}

	for _, v := range a.Vertices {
		if geometry.Locate(v, b) == geometry.Outside {
			return false
		}
	}

	return true
}
