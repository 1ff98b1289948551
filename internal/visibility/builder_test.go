package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cspace-planner/internal/geometry"
)

func box(x, y, size float64) geometry.Polygon {
	return geometry.Polygon{Vertices: []geometry.Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	}}
}

func hasEdge(edges []Edge, p, q geometry.Point) bool {
	for _, e := range edges {
		if e.Connects(p, q) {
			return true
		}
	}
	return false
}

func TestBuildTwoObstacles(t *testing.T) {
	left, right := box(0, 0, 1), box(3, 0, 1)

	edges, err := Build([]geometry.Polygon{left, right})
	require.NoError(t, err)

	// Facing corners see each other
	assert.True(t, hasEdge(edges, geometry.Point{X: 1, Y: 0}, geometry.Point{X: 3, Y: 0}))
	assert.True(t, hasEdge(edges, geometry.Point{X: 1, Y: 1}, geometry.Point{X: 3, Y: 1}))
	// Far corner is hidden behind the near obstacle's body
	assert.False(t, hasEdge(edges, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 4, Y: 1}))
	// Own diagonals and own edges are covered
	assert.False(t, hasEdge(edges, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 1}))
	assert.False(t, hasEdge(edges, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0}))

	for _, e := range edges {
		assert.False(t, e.A.Equal(e.B), "self loop %v", e)
		assert.InDelta(t, e.A.Distance(e.B), e.Length, 1e-12)
	}
}

func TestBuildThirdObstacleBlocks(t *testing.T) {
	left, right := box(0, 0, 1), box(6, 0, 1)

	edges, err := Build([]geometry.Polygon{left, right})
	require.NoError(t, err)
	require.True(t, hasEdge(edges, geometry.Point{X: 1, Y: 0}, geometry.Point{X: 6, Y: 1}))

	middle := box(3, -1, 2)
	edges, err = Build([]geometry.Polygon{left, right, middle})
	require.NoError(t, err)
	assert.False(t, hasEdge(edges, geometry.Point{X: 1, Y: 0}, geometry.Point{X: 6, Y: 1}))
}

func TestBuildWithStartAndGoal(t *testing.T) {
	sq := box(0, 0, 2)
	start, goal := geometry.Point{X: -1, Y: 1}, geometry.Point{X: 3, Y: 1}

	edges, err := Build([]geometry.Polygon{sq}, WithStart(start), WithGoal(goal))
	require.NoError(t, err)

	assert.True(t, hasEdge(edges, start, geometry.Point{X: 0, Y: 0}))
	assert.True(t, hasEdge(edges, start, geometry.Point{X: 0, Y: 2}))
	assert.True(t, hasEdge(edges, geometry.Point{X: 2, Y: 0}, goal))
	assert.False(t, hasEdge(edges, start, goal))
	assert.False(t, hasEdge(edges, start, geometry.Point{X: 2, Y: 0}))

	withoutQuery, err := Build([]geometry.Polygon{sq})
	require.NoError(t, err)
	for _, e := range withoutQuery {
		assert.False(t, e.A.Equal(start) || e.B.Equal(start))
	}
}

func TestBuildInteriorOnlyKeepsBoundaryEdges(t *testing.T) {
	sq := box(0, 0, 2)

	covered, err := Build([]geometry.Polygon{sq})
	require.NoError(t, err)
	assert.Empty(t, covered)

	interior, err := Build([]geometry.Polygon{sq}, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	assert.Len(t, interior, 4)
	assert.True(t, hasEdge(interior, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 2, Y: 0}))
	assert.False(t, hasEdge(interior, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 2, Y: 2}))
}

func TestBuildSkipsCoincidentVertices(t *testing.T) {
	a, b := box(0, 0, 1), box(1, 1, 1) // share the corner (1,1)

	edges, err := Build([]geometry.Polygon{a, b}, WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	for _, e := range edges {
		assert.False(t, e.A.Equal(e.B))
	}
}

func TestBuildSpatialIndexMatchesExhaustive(t *testing.T) {
	obstacles := []geometry.Polygon{
		box(0, 0, 1), box(3, 0.5, 1), box(1.5, 3, 2), box(-2, 2, 1),
		{Vertices: []geometry.Point{{X: 5, Y: 3}, {X: 7, Y: 3}, {X: 6, Y: 5}}},
	}
	opts := []Option{WithStart(geometry.Point{X: -3, Y: -1}), WithGoal(geometry.Point{X: 8, Y: 6})}

	for _, mode := range []geometry.BlockMode{geometry.BlockCovered, geometry.BlockInteriorOnly} {
		plain, err := Build(obstacles, append(opts, WithBlockMode(mode))...)
		require.NoError(t, err)
		indexed, err := Build(obstacles, append(opts, WithBlockMode(mode), WithSpatialIndex(true))...)
		require.NoError(t, err)

		assert.Equal(t, plain, indexed, "mode %s", mode)
	}
}

func TestBuildRejectsInvalidObstacle(t *testing.T) {
	_, err := Build([]geometry.Polygon{box(0, 0, 1), {Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrInvalidPolygon)

	var pe *geometry.PolygonError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Index)
}

func TestSpatialIndexQuery(t *testing.T) {
	obstacles := []geometry.Polygon{box(0, 0, 1), box(10, 10, 1)}
	index := NewSpatialIndex(obstacles)

	hits := index.Query(SegmentBound(geometry.Point{X: -1, Y: 0.5}, geometry.Point{X: 2, Y: 0.5}))
	assert.Equal(t, []geometry.Polygon{obstacles[0]}, hits)

	hits = index.Query(SegmentBound(geometry.Point{X: 1, Y: 2}, geometry.Point{X: 1, Y: 5}))
	assert.Len(t, hits, 0)

	// Touching the box corner still counts
	hits = index.Query(SegmentBound(geometry.Point{X: 1, Y: 1}, geometry.Point{X: 1, Y: 5}))
	assert.Len(t, hits, 1)
}
