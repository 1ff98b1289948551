package visibility

import (
	"log/slog"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
)

// Edge is an unobstructed straight segment between two distinct vertices
type Edge struct {
	A      geometry.Point `json:"a"`
	B      geometry.Point `json:"b"`
	Length float64        `json:"length"`
}

// Connects reports whether the edge joins p and q, in either direction
func (e Edge) Connects(p, q geometry.Point) bool {
	return (e.A.Equal(p) && e.B.Equal(q)) || (e.A.Equal(q) && e.B.Equal(p))
}

type options struct {
	start, goal  *geometry.Point
	mode         geometry.BlockMode
	spatialIndex bool
	logger       *slog.Logger
}

// Option configures Build
type Option func(*options)

// WithStart adds the start point as a candidate vertex
func WithStart(p geometry.Point) Option {
	return func(o *options) { o.start = &p }
}

// WithGoal adds the goal point as a candidate vertex
func WithGoal(p geometry.Point) Option {
	return func(o *options) { o.goal = &p }
}

// WithBlockMode selects the segment/obstacle blocking rule
func WithBlockMode(mode geometry.BlockMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithSpatialIndex prefilters obstacles through an R-tree. The edge set is the
// same with or without it.
func WithSpatialIndex(enabled bool) Option {
	return func(o *options) { o.spatialIndex = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Build returns every segment between two candidate vertices that no obstacle
// blocks. Candidates are all obstacle vertices in order, then start and goal
// when given; duplicates are kept, coincident pairs never form an edge.
//
// Cost is O(V^2 * P) for V candidates and P obstacles.
func Build(obstacles []geometry.Polygon, opts ...Option) ([]Edge, error) {
	o := options{mode: geometry.BlockCovered}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)

	for i, obstacle := range obstacles {
		if err := obstacle.Validate(); err != nil {
			return nil, geometry.WithIndex(err, i)
		}
	}

	vertices := make([]geometry.Point, 0)
	for _, obstacle := range obstacles {
		vertices = append(vertices, obstacle.Vertices...)
	}
	if o.start != nil {
		vertices = append(vertices, *o.start)
	}
	if o.goal != nil {
		vertices = append(vertices, *o.goal)
	}

	var index *SpatialIndex
	if o.spatialIndex {
		index = NewSpatialIndex(obstacles)
	}

	logger.Debug("building visibility graph",
		"obstacles", len(obstacles),
		"vertices", len(vertices),
		"pairs", len(vertices)*(len(vertices)-1)/2,
		"block_mode", o.mode.String(),
		"spatial_index", o.spatialIndex,
	)

	edges := make([]Edge, 0)
	for i := 0; i < len(vertices); i++ {
		for j := i + 1; j < len(vertices); j++ {
			a, b := vertices[i], vertices[j]
			if a.Equal(b) {
				continue
			}

			candidates := obstacles
			if index != nil {
				candidates = index.Query(SegmentBound(a, b))
			}

			if geometry.IsPathClear(a, b, candidates, o.mode) {
				edges = append(edges, Edge{A: a, B: b, Length: a.Distance(b)})
			}
		}
	}

	logger.Debug("visibility graph built", "edges", len(edges))
	return edges, nil
}
