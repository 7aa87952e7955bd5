// Package heuristic provides the deterministic fallback scorer used when
// the text-completion gateway is unavailable or returns unusable output.
//
// The policy classifies by response length as a crude signal of effort:
// a member who wrote more than a handful of words gets the benefit of the
// doubt, a one-liner earns a one-on-one. The function is total - any
// string, including empty, yields a verdict - because it is the
// guaranteed terminus of the failure-handling chain.
package heuristic

import (
	"strings"

	"github.com/teamlens/alignd/internal/domain/model"
)

// Pinned policy constants. The feedback strings must disclose that the
// result is simulated, never presented as model-derived.
const (
	wordThreshold = 5
	detailedScore = 85
	briefScore    = 45

	detailedFeedback = "Heuristic estimate: the detailed response suggests good alignment. AI review was unavailable."
	briefFeedback    = "Heuristic estimate: the response is very brief; a one-on-one would help clarify. AI review was unavailable."
)

// Score produces a verdict from the understanding text alone. No I/O,
// no randomness: equal input always yields an equal verdict.
func Score(understanding string) model.Verdict {
	if len(strings.Fields(understanding)) > wordThreshold {
		return model.Verdict{
			Score:          detailedScore,
			Recommendation: model.RecommendationNone,
			Feedback:       detailedFeedback,
		}
	}
	return model.Verdict{
		Score:          briefScore,
		Recommendation: model.RecommendationOneOnOne,
		Feedback:       briefFeedback,
	}
}
