package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cspace-planner/internal/cspace"
	"cspace-planner/internal/geometry"
	"cspace-planner/internal/loader"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/planner"
)

// PlanRequest is the body of POST /plan
type PlanRequest struct {
	Obstacles [][]geometry.Point `json:"obstacles"`
	Start     geometry.Point     `json:"start"`
	Goal      geometry.Point     `json:"goal"`
	Radius    float64            `json:"radius"`
}

type PlanResponse struct {
	Path     []geometry.Point `json:"path"`
	Cost     float64          `json:"cost,omitempty"`
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	NumEdges int              `json:"numEdges"`
}

// VisibilityRequest is the body of POST /visibility. Start and goal are optional.
type VisibilityRequest struct {
	Obstacles [][]geometry.Point `json:"obstacles"`
	Radius    float64            `json:"radius"`
	Start     *geometry.Point    `json:"start,omitempty"`
	Goal      *geometry.Point    `json:"goal,omitempty"`
}

type VisibilityResponse struct {
	Success  bool                `json:"success"`
	Lines    [][2]geometry.Point `json:"lines"`
	Inflated [][]geometry.Point  `json:"inflated"`
	NumEdges int                 `json:"numEdges"`
}

// Server exposes a Planner over HTTP. Requests share no state.
type Server struct {
	planner *planner.Planner
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a server around p
func New(p *planner.Planner, logger *slog.Logger) *Server {
	return &Server{planner: p, metrics: NewMetrics(), logger: logging.OrNop(logger)}
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Post("/plan", s.handlePlan)
	r.Post("/visibility", s.handleVisibility)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// POST /plan - shortest collision-free path. ?format=geojson returns every
// planning stage as a FeatureCollection.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("plan: invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles, err := toPolygons(req.Obstacles)
	if err != nil {
		s.metrics.plans.WithLabelValues(outcomeInvalid).Inc()
		s.logger.Warn("plan: invalid obstacle", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	began := time.Now()
	result, err := s.planner.Plan(obstacles, req.Start, req.Goal, req.Radius)
	s.metrics.planDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		s.metrics.plans.WithLabelValues(outcomeInvalid).Inc()
		s.writeError(w, "plan", err)
		return
	}
	s.metrics.visibilityEdges.Observe(float64(len(result.Edges)))

	if r.URL.Query().Get("format") == "geojson" {
		s.countOutcome(result)
		w.Header().Set("Content-Type", "application/geo+json")
		if err := loader.WriteGeoJSON(w, loader.FeatureCollection(result)); err != nil {
			s.logger.Error("plan: geojson encode failed", "error", err)
		}
		return
	}

	resp := PlanResponse{Success: result.Reachable(), NumEdges: len(result.Edges), Path: []geometry.Point{}}
	if result.Reachable() {
		resp.Path = result.Path.Points
		resp.Cost = result.Path.Cost
	} else {
		resp.Message = planner.ErrUnreachableGoal.Error()
	}
	s.countOutcome(result)

	writeJSON(w, http.StatusOK, resp, s.logger)
}

// POST /visibility - c-space obstacles and visibility edges for visualization
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("visibility: invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	obstacles, err := toPolygons(req.Obstacles)
	if err != nil {
		s.logger.Warn("visibility: invalid obstacle", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inflated, err := s.planner.Inflate(obstacles, req.Radius)
	if err != nil {
		s.writeError(w, "visibility", err)
		return
	}
	edges, err := s.planner.Visibility(inflated, req.Start, req.Goal)
	if err != nil {
		s.writeError(w, "visibility", err)
		return
	}
	s.metrics.visibilityEdges.Observe(float64(len(edges)))

	resp := VisibilityResponse{
		Success:  true,
		Lines:    make([][2]geometry.Point, 0, len(edges)),
		Inflated: make([][]geometry.Point, 0, len(inflated)),
		NumEdges: len(edges),
	}
	for _, e := range edges {
		resp.Lines = append(resp.Lines, [2]geometry.Point{e.A, e.B})
	}
	for _, poly := range inflated {
		resp.Inflated = append(resp.Inflated, poly.Vertices)
	}

	writeJSON(w, http.StatusOK, resp, s.logger)
}

// GET /health - Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	opts := s.planner.Options()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"blockMode":    opts.BlockMode.String(),
		"spatialIndex": opts.SpatialIndex,
	}, s.logger)
}

func (s *Server) countOutcome(result *planner.Result) {
	if result.Reachable() {
		s.metrics.plans.WithLabelValues(outcomeFound).Inc()
		return
	}
	s.metrics.plans.WithLabelValues(outcomeUnreachable).Inc()
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, geometry.ErrInvalidPolygon) || errors.Is(err, cspace.ErrNegativeRadius) {
		s.logger.Warn(op+": rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Error(op+" failed", "error", err)
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
}

func toPolygons(rings [][]geometry.Point) ([]geometry.Polygon, error) {
	polygons := make([]geometry.Polygon, 0, len(rings))
	for i, ring := range rings {
		poly, err := geometry.NewPolygon(ring)
		if err != nil {
			return nil, geometry.WithIndex(err, i)
		}
		polygons = append(polygons, poly)
	}
	return polygons, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
