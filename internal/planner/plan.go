package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cspace-planner/internal/cspace"
	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/visibility"
)

// ErrUnreachableGoal describes a query with no path. Plan never returns it;
// callers use it to report a Result without a path.
var ErrUnreachableGoal = errors.New("path could not be obtained")

// Options controls the planning pipeline
type Options struct {
	BlockMode      geometry.BlockMode
	SpatialIndex   bool
	PruneContained bool
	Logger         *slog.Logger
}

// Option configures a Planner
type Option func(*Options)

func WithBlockMode(mode geometry.BlockMode) Option {
	return func(o *Options) { o.BlockMode = mode }
}

func WithSpatialIndex(enabled bool) Option {
	return func(o *Options) { o.SpatialIndex = enabled }
}

func WithPruneContained(enabled bool) Option {
	return func(o *Options) { o.PruneContained = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Result carries every stage of a planning call. Path is nil when the goal is
// unreachable.
type Result struct {
	Start     geometry.Point     `json:"start"`
	Goal      geometry.Point     `json:"goal"`
	Obstacles []geometry.Polygon `json:"obstacles"`
	Inflated  []geometry.Polygon `json:"inflated"`
	Edges     []visibility.Edge  `json:"edges"`
	Path      *Path              `json:"path,omitempty"`
}

// Reachable reports whether a path was found
func (r *Result) Reachable() bool {
	return r != nil && r.Path != nil
}

// Planner runs inflate -> visibility graph -> shortest path. It holds no state
// between calls and is safe for concurrent use.
type Planner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a planner with the given options
func New(opts ...Option) *Planner {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return &Planner{opts: o, logger: logging.OrNop(o.Logger)}
}

// Options returns the planner configuration
func (p *Planner) Options() Options {
	return p.opts
}

// Plan computes a collision-free shortest path for a diamond robot of the given
// radius. Invalid obstacles halt the call with geometry.ErrInvalidPolygon; an
// unreachable goal is a normal Result with a nil Path.
func (p *Planner) Plan(obstacles []geometry.Polygon, start, goal geometry.Point, radius float64) (*Result, error) {
	began := time.Now()

	inflated, err := p.Inflate(obstacles, radius)
	if err != nil {
		return nil, err
	}

	edges, err := p.Visibility(inflated, &start, &goal)
	if err != nil {
		return nil, err
	}

	graph := NewGraph(edges, start, goal)
	path, ok := ShortestPath(graph)

	result := &Result{Start: start, Goal: goal, Obstacles: obstacles, Inflated: inflated, Edges: edges}
	if !ok {
		p.logger.Warn(ErrUnreachableGoal.Error(),
			"start", start,
			"goal", goal,
			"nodes", len(graph.Nodes),
			"edges", graph.EdgeCount(),
		)
		return result, nil
	}

	result.Path = path
	p.logger.Info("shortest path found",
		"cost", path.Cost,
		"waypoints", len(path.Points),
		"elapsed", time.Since(began),
	)
	return result, nil
}

// Inflate turns workspace obstacles into configuration-space obstacles
func (p *Planner) Inflate(obstacles []geometry.Polygon, radius float64) ([]geometry.Polygon, error) {
	inflated, err := cspace.InflateAll(obstacles, radius, p.logger)
	if err != nil {
		return nil, err
	}

	if p.opts.PruneContained {
		before := len(inflated)
		inflated = cspace.PruneContained(inflated)
		p.logger.Debug("pruned contained obstacles", "removed", before-len(inflated))
	}
	return inflated, nil
}

// Visibility builds the visibility graph over c-space obstacles; start and goal
// are optional
func (p *Planner) Visibility(inflated []geometry.Polygon, start, goal *geometry.Point) ([]visibility.Edge, error) {
	opts := []visibility.Option{
		visibility.WithBlockMode(p.opts.BlockMode),
		visibility.WithSpatialIndex(p.opts.SpatialIndex),
		visibility.WithLogger(p.logger),
	}
	if start != nil {
		opts = append(opts, visibility.WithStart(*start))
	}
	if goal != nil {
		opts = append(opts, visibility.WithGoal(*goal))
	}

	edges, err := visibility.Build(inflated, opts...)
	if err != nil {
		return nil, fmt.Errorf("build visibility graph: %w", err)
	}
	return edges, nil
}

// Plan runs a single planning call with a planner built from opts
func Plan(obstacles []geometry.Polygon, start, goal geometry.Point, radius float64, opts ...Option) (*Result, error) {
	return New(opts...).Plan(obstacles, start, goal, radius)
}
