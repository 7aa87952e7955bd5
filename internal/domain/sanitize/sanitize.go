// Package sanitize recovers structured data from raw model output.
//
// Model output is untrusted text: it may arrive wrapped in code fences,
// padded with prose, or not contain the expected structure at all. This
// package strips the wrapping and enforces the expected shape. It does
// NOT enforce domain ranges - a well-formed score of 150 passes through
// for the scorer to clamp, keeping sanitization and domain validation
// separate concerns.
package sanitize

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/teamlens/alignd/internal/domain/model"
)

// rawVerdict mirrors the JSON shape the alignment prompt requests.
// Pointers distinguish absent fields from zero values.
type rawVerdict struct {
	Score          *json.Number `json:"score"`
	Recommendation *string      `json:"recommendation"`
	Feedback       *string      `json:"feedback"`
}

// Verdict parses raw gateway output into a verdict. It fails with
// ErrMalformed when the text holds no JSON object, when a field is
// missing, or when a field has the wrong type. It never fails on
// out-of-range numeric scores.
func Verdict(raw string) (model.Verdict, error) {
	payload, err := extract(raw)
	if err != nil {
		return model.Verdict{}, err
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(payload), &rv); err != nil {
		return model.Verdict{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rv.Score == nil || rv.Recommendation == nil || rv.Feedback == nil {
		return model.Verdict{}, fmt.Errorf("%w: missing field", ErrMalformed)
	}

	score, err := rv.Score.Float64()
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return model.Verdict{}, fmt.Errorf("%w: non-numeric score", ErrMalformed)
	}

	rec, ok := model.ParseRecommendation(*rv.Recommendation)
	if !ok {
		return model.Verdict{}, fmt.Errorf("%w: unknown recommendation %q", ErrMalformed, *rv.Recommendation)
	}

	return model.Verdict{
		Score:          int(math.Round(score)),
		Recommendation: rec,
		Feedback:       *rv.Feedback,
	}, nil
}

// rawPlan mirrors the kickoff-plan JSON shape.
type rawPlan struct {
	ProjectName *string  `json:"projectName"`
	Tasks       []string `json:"tasks"`
}

// Plan parses raw gateway output into a project plan.
func Plan(raw string) (model.ProjectPlan, error) {
	payload, err := extract(raw)
	if err != nil {
		return model.ProjectPlan{}, err
	}

	var rp rawPlan
	if err := json.Unmarshal([]byte(payload), &rp); err != nil {
		return model.ProjectPlan{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rp.ProjectName == nil || strings.TrimSpace(*rp.ProjectName) == "" {
		return model.ProjectPlan{}, fmt.Errorf("%w: missing project name", ErrMalformed)
	}

	return model.ProjectPlan{ProjectName: *rp.ProjectName, Tasks: rp.Tasks}, nil
}

// extract strips fence markers and surrounding prose, leaving the
// outermost JSON object. Clean input passes through unchanged, so the
// operation is idempotent.
func extract(raw string) (string, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}
	return s[start : end+1], nil
}
