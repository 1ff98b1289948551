package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cspace-planner/internal/geometry"
)

func rect(x0, y0, x1, y1 float64) geometry.Polygon {
	return geometry.Polygon{Vertices: []geometry.Point{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

func pathLength(points []geometry.Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

func TestPlanSquareAroundCorner(t *testing.T) {
	obstacles := []geometry.Polygon{rect(0, 0, 2, 2)}
	start, goal := geometry.Point{X: -1, Y: 1}, geometry.Point{X: 3, Y: 1}

	result, err := Plan(obstacles, start, goal, 0, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	require.True(t, result.Reachable())

	assert.Equal(t, []geometry.Point{start, {X: 0, Y: 0}, {X: 2, Y: 0}, goal}, result.Path.Points)
	assert.InDelta(t, 2+2*math.Sqrt2, result.Path.Cost, 1e-9)
	assert.Equal(t, obstacles, result.Inflated)
}

func TestPlanSquareCoveredModeBlocksBoundary(t *testing.T) {
	obstacles := []geometry.Polygon{rect(0, 0, 2, 2)}
	start, goal := geometry.Point{X: -1, Y: 1}, geometry.Point{X: 3, Y: 1}

	result, err := Plan(obstacles, start, goal, 0)
	require.NoError(t, err)
	assert.False(t, result.Reachable())
	assert.Nil(t, result.Path)
	assert.NotEmpty(t, result.Edges)
}

func TestPlanCostMatchesWaypoints(t *testing.T) {
	tests := []struct {
		name      string
		obstacles []geometry.Polygon
		start     geometry.Point
		goal      geometry.Point
		radius    float64
		mode      geometry.BlockMode
	}{
		{
			name:      "single corner",
			obstacles: []geometry.Polygon{rect(0, 0, 2, 2)},
			start:     geometry.Point{X: -1, Y: 1},
			goal:      geometry.Point{X: 1, Y: 2.5},
			mode:      geometry.BlockCovered,
		},
		{
			name: "several obstacles",
			obstacles: []geometry.Polygon{
				rect(1, -1, 2, 3),
				rect(4, -3, 5, 1),
				rect(6, 0, 8, 1),
				{Vertices: []geometry.Point{{X: 3, Y: 4}, {X: 5, Y: 3}, {X: 4, Y: 6}}},
			},
			start:  geometry.Point{X: 0, Y: 0},
			goal:   geometry.Point{X: 9, Y: 0.5},
			radius: 0.25,
			mode:   geometry.BlockInteriorOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Plan(tt.obstacles, tt.start, tt.goal, tt.radius, WithBlockMode(tt.mode), WithSpatialIndex(true))
			require.NoError(t, err)
			require.True(t, result.Reachable())

			points := result.Path.Points
			assert.Equal(t, tt.start, points[0])
			assert.Equal(t, tt.goal, points[len(points)-1])
			assert.InDelta(t, pathLength(points), result.Path.Cost, 1e-9)
			assert.Greater(t, result.Path.Cost, tt.start.Distance(tt.goal))

			for i := 1; i < len(points); i++ {
				assert.True(t, geometry.IsPathClear(points[i-1], points[i], result.Inflated, tt.mode))
			}
		})
	}
}

func TestPlanSingleCornerRoute(t *testing.T) {
	start, goal := geometry.Point{X: -1, Y: 1}, geometry.Point{X: 1, Y: 2.5}

	result, err := Plan([]geometry.Polygon{rect(0, 0, 2, 2)}, start, goal, 0)
	require.NoError(t, err)
	require.True(t, result.Reachable())

	corner := geometry.Point{X: 0, Y: 2}
	assert.Equal(t, []geometry.Point{start, corner, goal}, result.Path.Points)
	assert.InDelta(t, start.Distance(corner)+corner.Distance(goal), result.Path.Cost, 1e-12)
}

func TestPlanStartEqualsGoal(t *testing.T) {
	p := geometry.Point{X: -3, Y: -3}
	result, err := Plan([]geometry.Polygon{rect(0, 0, 1, 1)}, p, p, 0.5)
	require.NoError(t, err)
	require.True(t, result.Reachable())

	assert.Equal(t, []geometry.Point{p}, result.Path.Points)
	assert.Equal(t, 0.0, result.Path.Cost)
}

func TestPlanEnclosedGoal(t *testing.T) {
	walls := []geometry.Polygon{
		rect(-3, -3, 3, -2),
		rect(-3, 2, 3, 3),
		rect(-3, -3, -2, 3),
		rect(2, -3, 3, 3),
	}
	start, goal := geometry.Point{X: 10, Y: 0}, geometry.Point{X: 0, Y: 0}

	for _, mode := range []geometry.BlockMode{geometry.BlockCovered, geometry.BlockInteriorOnly} {
		result, err := Plan(walls, start, goal, 0, WithBlockMode(mode))
		require.NoError(t, err)
		assert.False(t, result.Reachable(), "mode %s", mode)
	}
}

func TestPlanNoObstacles(t *testing.T) {
	start, goal := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 4}

	result, err := Plan(nil, start, goal, 1)
	require.NoError(t, err)
	require.True(t, result.Reachable())
	assert.Equal(t, []geometry.Point{start, goal}, result.Path.Points)
	assert.Equal(t, 5.0, result.Path.Cost)
}

func TestPlanRadiusKeepsClearance(t *testing.T) {
	obstacles := []geometry.Polygon{rect(0, -1, 1, 1)}
	start, goal := geometry.Point{X: -2, Y: 0}, geometry.Point{X: 3, Y: 0}

	thin, err := Plan(obstacles, start, goal, 0, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	wide, err := Plan(obstacles, start, goal, 0.5, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)

	require.True(t, thin.Reachable())
	require.True(t, wide.Reachable())
	assert.Greater(t, wide.Path.Cost, thin.Path.Cost)
}

func TestPlanInvalidPolygon(t *testing.T) {
	obstacles := []geometry.Polygon{rect(0, 0, 1, 1), {Vertices: []geometry.Point{{X: 5, Y: 5}, {X: 6, Y: 6}}}}

	result, err := Plan(obstacles, geometry.Point{}, geometry.Point{X: 9, Y: 9}, 1)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrInvalidPolygon)
}

func TestPlanPruneContained(t *testing.T) {
	obstacles := []geometry.Polygon{rect(0, 0, 4, 4), rect(1, 1, 2, 2)}
	start, goal := geometry.Point{X: -1, Y: 2}, geometry.Point{X: 5, Y: 2}

	pruned, err := Plan(obstacles, start, goal, 0.5, WithPruneContained(true), WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	full, err := Plan(obstacles, start, goal, 0.5, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)

	assert.Len(t, pruned.Inflated, 1)
	assert.Len(t, full.Inflated, 2)
	require.True(t, pruned.Reachable())
	assert.InDelta(t, full.Path.Cost, pruned.Path.Cost, 1e-9)
}

func TestPlannerOptions(t *testing.T) {
	p := New(WithBlockMode(geometry.BlockInteriorOnly), WithSpatialIndex(true))
	assert.Equal(t, geometry.BlockInteriorOnly, p.Options().BlockMode)
	assert.True(t, p.Options().SpatialIndex)
	assert.False(t, p.Options().PruneContained)
}
