// Package api declares HTTP contracts and route registration helpers.
//
// This is the outermost boundary: it translates the core's total
// contracts into JSON. Callers always receive a MatchResult for any
// well-formed profile pair; only malformed payloads yield an error
// response.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the app service.
type Dependencies interface {
	Match(ctx context.Context, c *model.Candidate, j *model.Job, mctx model.MatchContext) model.MatchResult
	BatchTransport(ctx context.Context, c *model.Candidate, jobs []*model.Job) map[string]model.ComponentScore
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	matchHandler  *MatchHandler
	batchHandler  *BatchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		matchHandler:  NewMatchHandler(deps),
		batchHandler:  NewBatchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/transport/batch", MetricsMiddleware(s.batchHandler.HandleBatch, "transport_batch"))
}

// matchRequest is the POST /match payload.
type matchRequest struct {
	Candidate *model.Candidate   `json:"candidate"`
	Job       *model.Job         `json:"job"`
	Context   model.MatchContext `json:"context"`
}

func (r matchRequest) validate() error {
	switch {
	case r.Candidate == nil:
		return errors.New("missing candidate")
	case r.Job == nil:
		return errors.New("missing job")
	}
	return nil
}

// batchRequest is the POST /transport/batch payload.
type batchRequest struct {
	Candidate *model.Candidate `json:"candidate"`
	Jobs      []*model.Job     `json:"jobs"`
}

func (r batchRequest) validate() error {
	switch {
	case r.Candidate == nil:
		return errors.New("missing candidate")
	case len(r.Jobs) == 0:
		return errors.New("missing jobs")
	}
	for _, j := range r.Jobs {
		if j == nil || j.ID == "" {
			return errors.New("jobs must carry an id")
		}
	}
	return nil
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
