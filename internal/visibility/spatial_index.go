package visibility

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"cspace-planner/internal/geometry"
)

// padding keeps degenerate (zero-width) boxes valid and makes touching boxes
// overlap, since rtreego treats shared faces as disjoint
const padding = 1e-9

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	index int
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers which obstacles may touch a segment
type SpatialIndex struct {
	tree      *rtreego.Rtree
	obstacles []geometry.Polygon
}

// NewSpatialIndex creates a new spatial index over the obstacle bounding boxes
func NewSpatialIndex(obstacles []geometry.Polygon) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for i, obstacle := range obstacles {
		bbox, err := toRect(obstacle.Bounds())
		if err == nil {
			tree.Insert(&obstacleEntry{index: i, bbox: bbox})
		}
	}

	return &SpatialIndex{tree: tree, obstacles: obstacles}
}

// Query returns the obstacles whose bounding box meets bound
func (si *SpatialIndex) Query(bound orb.Bound) []geometry.Polygon {
	bbox, err := toRect(bound)
	if err != nil {
		return si.obstacles
	}

	results := si.tree.SearchIntersect(bbox)
	polygons := make([]geometry.Polygon, 0, len(results))
	for _, item := range results {
		polygons = append(polygons, si.obstacles[item.(*obstacleEntry).index])
	}
	return polygons
}

// SegmentBound is the bounding box of segment ab
func SegmentBound(a, b geometry.Point) orb.Bound {
	return orb.MultiPoint{a.Orb(), b.Orb()}.Bound()
}

func toRect(bound orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{bound.Min.X() - padding, bound.Min.Y() - padding},
		[]float64{bound.Max.X() - bound.Min.X() + 2*padding, bound.Max.Y() - bound.Min.Y() + 2*padding},
	)
}
