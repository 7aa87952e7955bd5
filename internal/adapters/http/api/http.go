// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teamlens/alignd/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// PublishGoal stores a leader goal and, best effort, attaches a
	// kickoff plan. A nil plan is a normal outcome.
	PublishGoal(ctx context.Context, g model.Goal) (model.Goal, *model.ProjectPlan, error)

	// GetGoal resolves a code to its active goal.
	GetGoal(ctx context.Context, code string) (model.Goal, error)

	// Analyze scores one submission against its goal and persists the
	// result. The analysis is valid even when err is non-nil.
	Analyze(ctx context.Context, sub model.Submission) (model.Analysis, error)

	// GenerateReport summarizes recent analyses for one member or team.
	GenerateReport(ctx context.Context, scope model.ReportScope) (string, error)

	// Alignments lists recent analyses for a team code, newest first.
	Alignments(ctx context.Context, code string) ([]model.Analysis, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	goalsHandler      *GoalsHandler
	analyzeHandler    *AnalyzeHandler
	reportHandler     *ReportHandler
	alignmentsHandler *AlignmentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		goalsHandler:      NewGoalsHandler(deps),
		analyzeHandler:    NewAnalyzeHandler(deps),
		reportHandler:     NewReportHandler(deps),
		alignmentsHandler: NewAlignmentsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/goals", MetricsMiddleware(s.goalsHandler.HandleGoals, "goals"))
	mux.HandleFunc("/analyze-alignment", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze_alignment"))
	mux.HandleFunc("/generate-report", MetricsMiddleware(s.reportHandler.HandleGenerateReport, "generate_report"))
	mux.HandleFunc("/alignments", MetricsMiddleware(s.alignmentsHandler.HandleGetAlignments, "alignments"))
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
