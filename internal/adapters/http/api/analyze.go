// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamlens/alignd/internal/adapters/repository"
	service "github.com/teamlens/alignd/internal/app"
	"github.com/teamlens/alignd/internal/domain/model"
)

// AnalyzeHandler handles alignment-check requests.
type AnalyzeHandler struct {
	deps Dependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// analyzeRequest mirrors the wire schema for POST /analyze-alignment.
type analyzeRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Understanding string `json:"understanding"`
}

// analyzeFailure is the 500 body when the analysis was computed but
// could not be persisted. The analysis rides along so the client still
// sees the verdict.
type analyzeFailure struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Analysis model.Analysis `json:"analysis"`
}

// HandleAnalyze handles POST /analyze-alignment requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_alignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	analysis, err := h.deps.Analyze(r.Context(), model.Submission{
		Code:          req.Code,
		MemberName:    req.Name,
		Role:          req.Role,
		Understanding: req.Understanding,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analysis)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		// Storage failures still carry the computed analysis.
		writeJSON(w, http.StatusInternalServerError, analyzeFailure{
			Code:     "storage_error",
			Message:  err.Error(),
			Analysis: analysis,
		})
	}
}
