// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Defaults applied to optional submission fields.
const (
	AnonymousMember = "Anonymous"
	UnspecifiedRole = "Unspecified"
)

// Recommendation is the meeting verdict attached to an analysis.
type Recommendation string

// The fixed three-value recommendation set.
const (
	RecommendationNone        Recommendation = "NONE"
	RecommendationOneOnOne    Recommendation = "ONE_ON_ONE"
	RecommendationNeedsReview Recommendation = "NEEDS_REVIEW"
)

// ParseRecommendation maps a wire label onto the recommendation set.
// Matching is case-insensitive and tolerates the variants the model
// tends to produce ("None", "1:1 Meeting", "needs review"). Unknown
// labels return false rather than a guess.
func ParseRecommendation(s string) (Recommendation, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "NO MEETING":
		return RecommendationNone, true
	case "ONE_ON_ONE", "ONE-ON-ONE", "ONE ON ONE", "1:1", "1:1 MEETING":
		return RecommendationOneOnOne, true
	case "NEEDS_REVIEW", "NEEDS REVIEW", "REVIEW":
		return RecommendationNeedsReview, true
	}
	return "", false
}

// Goal is a leader-authored objective for a team or session code.
// One active goal per code; republishing a code overwrites it.
type Goal struct {
	Code        string    `json:"code"`
	GoalText    string    `json:"goal_text"`
	ContextText string    `json:"context_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Submission is a member's clarity check against a goal.
type Submission struct {
	Code          string `json:"code"`
	MemberName    string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	Understanding string `json:"understanding"`
}

// Normalize trims the code and fills optional fields with defaults.
func (s Submission) Normalize() Submission {
	s.Code = strings.TrimSpace(s.Code)
	if strings.TrimSpace(s.MemberName) == "" {
		s.MemberName = AnonymousMember
	}
	if strings.TrimSpace(s.Role) == "" {
		s.Role = UnspecifiedRole
	}
	return s
}

// Verdict is the score/recommendation/feedback triple produced by either
// the model or the fallback heuristic.
type Verdict struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Feedback       string         `json:"feedback"`
}

// Analysis is one persisted clarity check. Records are append-only and
// immutable once written.
type Analysis struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	MemberName    string    `json:"name"`
	Role          string    `json:"role"`
	Understanding string    `json:"understanding"`
	Verdict       Verdict   `json:"analysis"`
	IsFallback    bool      `json:"is_fallback"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReportScope selects whose history a report covers. Exactly one of
// MemberName or TeamCode must be set.
type ReportScope struct {
	MemberName string `json:"user_id,omitempty"`
	TeamCode   string `json:"team_code,omitempty"`
}

// Valid reports whether exactly one scope field is set.
func (s ReportScope) Valid() bool {
	return (s.MemberName != "") != (s.TeamCode != "")
}

// ProjectPlan is an optional AI-generated kickoff plan attached to goal
// publication. Best effort; a nil plan is a normal outcome.
type ProjectPlan struct {
	ProjectName string   `json:"projectName"`
	Tasks       []string `json:"tasks"`
}
