// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	service "github.com/teamlens/alignd/internal/app"
	"github.com/teamlens/alignd/internal/domain/model"
)

// AlignmentsHandler handles alignment history requests.
type AlignmentsHandler struct {
	deps Dependencies
}

// NewAlignmentsHandler creates a new alignments handler.
func NewAlignmentsHandler(deps Dependencies) *AlignmentsHandler {
	return &AlignmentsHandler{deps: deps}
}

type alignmentsResponse struct {
	Alignments []model.Analysis `json:"alignments"`
}

// HandleGetAlignments handles GET /alignments?code= requests.
func (h *AlignmentsHandler) HandleGetAlignments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	got, err := h.deps.Alignments(r.Context(), r.URL.Query().Get("code"))
	switch {
	case err == nil:
		if got == nil {
			got = []model.Analysis{}
		}
		writeJSON(w, http.StatusOK, alignmentsResponse{Alignments: got})
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "storage_error", err)
	}
}
