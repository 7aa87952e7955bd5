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

// GoalsHandler handles goal publication and lookup.
type GoalsHandler struct {
	deps Dependencies
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(deps Dependencies) *GoalsHandler {
	return &GoalsHandler{deps: deps}
}

// goalRequest mirrors the wire schema for POST /goals.
type goalRequest struct {
	Code        string `json:"code"`
	GoalText    string `json:"goal_text"`
	ContextText string `json:"context_text"`
}

type goalResponse struct {
	Goal model.Goal         `json:"goal"`
	Plan *model.ProjectPlan `json:"plan,omitempty"`
}

// HandleGoals routes POST (publish) and GET (lookup) for /goals.
func (h *GoalsHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePublish(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *GoalsHandler) handlePublish(w http.ResponseWriter, r *http.Request) {
	const op = "api.publish_goal"

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	goal, plan, err := h.deps.PublishGoal(r.Context(), model.Goal{
		Code:        req.Code,
		GoalText:    req.GoalText,
		ContextText: req.ContextText,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, goalResponse{Goal: goal, Plan: plan})
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "storage_error", err)
	}
}

func (h *GoalsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing code query parameter"))
		return
	}

	goal, err := h.deps.GetGoal(r.Context(), code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, goal)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "storage_error", err)
	}
}
