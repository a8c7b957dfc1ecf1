// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matchweek/refassign/internal/domain/fit"
	"github.com/matchweek/refassign/internal/domain/suggest"
)

// Dependencies bundles what the handlers need from the service layer.
// Using an interface keeps the handler layer loosely coupled to the
// implementation in internal/app.
type Dependencies interface {
	// ScoreFit computes the fit score and flags for one pair, with the
	// optional diagnostic trace.
	ScoreFit(ctx context.Context, fixtureID, officialID string, debug bool) (fit.Result, error)

	// Suggest streams weekend proposals for the range; zero times select
	// the default upcoming weekends.
	Suggest(ctx context.Context, from, to time.Time) <-chan suggest.Event
}

// StatsProvider exposes an operational snapshot for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	fitHandler       *FitHandler
	conflictsHandler *ConflictsHandler
	suggestHandler   *SuggestHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		fitHandler:       NewFitHandler(deps),
		conflictsHandler: NewConflictsHandler(deps),
		suggestHandler:   NewSuggestHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/fit", MetricsMiddleware(s.fitHandler.HandleGetFit, "fit"))
	mux.HandleFunc("/conflicts", MetricsMiddleware(s.conflictsHandler.HandleGetConflicts, "conflicts"))
	mux.HandleFunc("/suggest", MetricsMiddleware(s.suggestHandler.HandleGetSuggest, "suggest"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
