package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/planner"
)

const squareCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "square"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[5,5],[6,5],[6,6],[5,5]]],
        [[[8,0],[9,0],[9,1],[8,1],[8,0]], [[8.2,0.2],[8.8,0.2],[8.8,0.8],[8.2,0.2]]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [1,1]}
    }
  ]
}`

func TestParseGeoJSONFeatureCollection(t *testing.T) {
	obstacles, err := ParseGeoJSON([]byte(squareCollection), "nfz.geojson")
	require.NoError(t, err)
	require.Len(t, obstacles, 3)

	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}, obstacles[0].Vertices)
	assert.Len(t, obstacles[1].Vertices, 3)
	// holes are ignored
	assert.Len(t, obstacles[2].Vertices, 4)
}

func TestParseGeoJSONGeometry(t *testing.T) {
	data := []byte(`{"type": "Polygon", "coordinates": [[[0,0],[1,0],[0,1],[0,0]]]}`)

	obstacles, err := ParseGeoJSON(data, "single.json")
	require.NoError(t, err)
	require.Len(t, obstacles, 1)
	assert.Len(t, obstacles[0].Vertices, 3)
}

func TestParseGeoJSONErrors(t *testing.T) {
	_, err := ParseGeoJSON([]byte("not json"), "bad.geojson")
	assert.ErrorIs(t, err, ErrParse)

	degenerate := []byte(`{"type": "Polygon", "coordinates": [[[0,0],[1,1],[0,0]]]}`)
	_, err = ParseGeoJSON(degenerate, "degenerate.geojson")
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, geometry.ErrInvalidPolygon)
}

func TestLoadObstacles(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "obstacles.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("0,0 1,0 1,1\n"), 0o644))

	obstacles, err := LoadObstacles(textPath, nil)
	require.NoError(t, err)
	assert.Len(t, obstacles, 1)

	geoPath := filepath.Join(dir, "nfz.geojson")
	require.NoError(t, os.WriteFile(geoPath, []byte(squareCollection), 0o644))

	obstacles, err = LoadObstacles(geoPath, nil)
	require.NoError(t, err)
	assert.Len(t, obstacles, 3)

	_, err = LoadObstacles(filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)
}

func TestLoadObstaclesDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.geojson"), []byte(squareCollection), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.geojson"),
		[]byte(`{"type": "Polygon", "coordinates": [[[10,10],[11,10],[10,11],[10,10]]]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("0,0 1,0 1,1\n"), 0o644))

	obstacles, err := LoadObstacles(dir, logging.NewNop())
	require.NoError(t, err)
	assert.Len(t, obstacles, 4)
}

func TestFeatureCollection(t *testing.T) {
	square, err := geometry.NewPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	require.NoError(t, err)

	result, err := planner.Plan([]geometry.Polygon{square}, geometry.Point{X: -1, Y: 1}, geometry.Point{X: 3, Y: 1}, 0,
		planner.WithBlockMode(geometry.BlockInteriorOnly))
	require.NoError(t, err)
	require.True(t, result.Reachable())

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, FeatureCollection(result)))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)

	layers := make(map[string]int)
	for _, f := range fc.Features {
		layers[f.Properties.MustString("layer")]++
	}
	assert.Equal(t, 1, layers[LayerObstacle])
	assert.Equal(t, 1, layers[LayerCSpace])
	assert.Equal(t, len(result.Edges), layers[LayerEdge])
	assert.Equal(t, 1, layers[LayerPath])
	assert.Equal(t, 1, layers[LayerStart])
	assert.Equal(t, 1, layers[LayerGoal])
}

func TestFeatureCollectionUnreachable(t *testing.T) {
	result := &planner.Result{Start: geometry.Point{X: 0, Y: 0}, Goal: geometry.Point{X: 1, Y: 1}}

	fc := FeatureCollection(result)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, LayerStart, fc.Features[0].Properties["layer"])
	assert.Equal(t, LayerGoal, fc.Features[1].Properties["layer"])
}

func TestPolygonsFeatureCollection(t *testing.T) {
	tri, err := geometry.NewPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	require.NoError(t, err)

	fc := PolygonsFeatureCollection([]geometry.Polygon{tri, tri}, LayerCSpace)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, 1, fc.Features[1].Properties["index"])
}
