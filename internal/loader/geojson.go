package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/planner"
	"cspace-planner/internal/visibility"
)

// Layer names set in the "layer" property of exported features
const (
	LayerObstacle = "obstacle"
	LayerCSpace   = "cspace"
	LayerEdge     = "visibility"
	LayerPath     = "path"
	LayerStart    = "start"
	LayerGoal     = "goal"
)

// ParseGeoJSON extracts obstacles from a FeatureCollection or a bare geometry.
// Only the outer ring of each Polygon / MultiPolygon member is used.
func ParseGeoJSON(data []byte, name string) ([]geometry.Polygon, error) {
	var geometries []orb.Geometry

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	} else {
		g, gerr := geojson.UnmarshalGeometry(data)
		if gerr != nil {
			return nil, &ParseError{File: name, Msg: "not a GeoJSON feature collection or geometry", Err: gerr}
		}
		geometries = append(geometries, g.Geometry())
	}

	var obstacles []geometry.Polygon
	for _, g := range geometries {
		var rings []orb.Ring
		switch g := g.(type) {
		case orb.Polygon:
			if len(g) > 0 {
				rings = append(rings, g[0])
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				if len(poly) > 0 {
					rings = append(rings, poly[0])
				}
			}
		case orb.Ring:
			rings = append(rings, g)
		}

		for _, ring := range rings {
			poly, err := geometry.PolygonFromRing(ring)
			if err != nil {
				return nil, &ParseError{File: name, Msg: "bad obstacle", Err: geometry.WithIndex(err, len(obstacles))}
			}
			obstacles = append(obstacles, poly)
		}
	}

	return obstacles, nil
}

// LoadObstacles reads obstacles from a text file, a GeoJSON file, or every
// *.geojson file in a directory. Unreadable files in a directory are skipped.
func LoadObstacles(path string, logger *slog.Logger) ([]geometry.Polygon, error) {
	logger = logging.OrNop(logger)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open obstacles: %w", err)
	}
	if !info.IsDir() {
		return loadObstacleFile(path)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.geojson"))
	if err != nil {
		return nil, err
	}

	var all []geometry.Polygon
	for _, file := range files {
		polys, err := loadObstacleFile(file)
		if err != nil {
			logger.Warn("skipping obstacle file", "file", file, "error", err)
			continue
		}
		logger.Debug("loaded obstacles", "file", filepath.Base(file), "count", len(polys))
		all = append(all, polys...)
	}

	logger.Info("obstacles loaded", "files", len(files), "count", len(all))
	return all, nil
}

func loadObstacleFile(path string) ([]geometry.Polygon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read obstacles: %w", err)
		}
		return ParseGeoJSON(data, path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open obstacles: %w", err)
		}
		defer f.Close()
		return ParseObstacles(f, path)
	}
}

// FeatureCollection renders a planning result for display: workspace and
// c-space obstacles, visibility edges, the path and the query points.
func FeatureCollection(result *planner.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	addPolygons(fc, result.Obstacles, LayerObstacle)
	addPolygons(fc, result.Inflated, LayerCSpace)
	AddEdges(fc, result.Edges)

	if result.Path != nil {
		line := make(orb.LineString, 0, len(result.Path.Points))
		for _, p := range result.Path.Points {
			line = append(line, p.Orb())
		}
		f := geojson.NewFeature(line)
		f.Properties["layer"] = LayerPath
		f.Properties["cost"] = result.Path.Cost
		fc.Append(f)
	}

	start := geojson.NewFeature(result.Start.Orb())
	start.Properties["layer"] = LayerStart
	fc.Append(start)

	goal := geojson.NewFeature(result.Goal.Orb())
	goal.Properties["layer"] = LayerGoal
	fc.Append(goal)

	return fc
}

// PolygonsFeatureCollection renders polygons on a single layer
func PolygonsFeatureCollection(polygons []geometry.Polygon, layer string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	addPolygons(fc, polygons, layer)
	return fc
}

// AddEdges appends visibility edges as LineString features
func AddEdges(fc *geojson.FeatureCollection, edges []visibility.Edge) {
	for _, e := range edges {
		f := geojson.NewFeature(orb.LineString{e.A.Orb(), e.B.Orb()})
		f.Properties["layer"] = LayerEdge
		f.Properties["length"] = e.Length
		fc.Append(f)
	}
}

func addPolygons(fc *geojson.FeatureCollection, polygons []geometry.Polygon, layer string) {
	for i, poly := range polygons {
		f := geojson.NewFeature(orb.Polygon{poly.Ring()})
		f.Properties["layer"] = layer
		f.Properties["index"] = i
		fc.Append(f)
	}
}

// WriteGeoJSON encodes a feature collection to w
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
