// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/teamlens/alignd/internal/app"
	"github.com/teamlens/alignd/internal/domain/model"
)

// ReportHandler handles report generation requests.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// reportRequest mirrors the wire schema for POST /generate-report.
// Exactly one of user_id or team_code selects the scope; both the flat
// form and the nested {"scope": {...}} form are accepted.
type reportRequest struct {
	Scope    *reportScope `json:"scope"`
	UserID   string       `json:"user_id"`
	TeamCode string       `json:"team_code"`
}

type reportScope struct {
	UserID   string `json:"user_id"`
	TeamCode string `json:"team_code"`
}

func (r reportRequest) scope() (userID, teamCode string) {
	if r.Scope != nil {
		return r.Scope.UserID, r.Scope.TeamCode
	}
	return r.UserID, r.TeamCode
}

type reportResponse struct {
	Report string `json:"report"`
}

// HandleGenerateReport handles POST /generate-report requests.
func (h *ReportHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_report"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	userID, teamCode := req.scope()
	report, err := h.deps.GenerateReport(r.Context(), model.ReportScope{
		MemberName: userID,
		TeamCode:   teamCode,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, reportResponse{Report: report})
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "report_failed", err)
	}
}
