package prompt_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/internal/domain/prompt"
)

func TestAlignment(t *testing.T) {
	Convey("Given a goal and a submission", t, func() {
		goal := model.Goal{Code: "T1", GoalText: "Ship v2", ContextText: "Due Friday"}
		sub := model.Submission{Code: "T1", MemberName: "Ana", Role: "QA", Understanding: "Launch v2 by Friday"}

		Convey("When building the alignment prompt", func() {
			p := prompt.Alignment(goal, sub)

			Convey("Then it embeds every field", func() {
				So(p, ShouldContainSubstring, "Ship v2")
				So(p, ShouldContainSubstring, "Due Friday")
				So(p, ShouldContainSubstring, "Ana")
				So(p, ShouldContainSubstring, "QA")
				So(p, ShouldContainSubstring, "Launch v2 by Friday")
			})

			Convey("And it pins the response shape and version", func() {
				So(p, ShouldContainSubstring, `"score"`)
				So(p, ShouldContainSubstring, "ONE_ON_ONE")
				So(p, ShouldContainSubstring, prompt.Version)
			})
		})

		Convey("When the goal has no context", func() {
			p := prompt.Alignment(model.Goal{GoalText: "Ship v2"}, sub)
			So(p, ShouldNotContainSubstring, "Context:")
		})
	})
}

func TestReport(t *testing.T) {
	Convey("Given digest lines", t, func() {
		lines := []string{"Ana (QA): ok - score 85, NONE", "Bo (Dev): idk - score 45, ONE_ON_ONE (heuristic)"}

		Convey("When building the report prompt", func() {
			p := prompt.Report(lines)

			So(p, ShouldContainSubstring, "Ana (QA)")
			So(p, ShouldContainSubstring, "Bo (Dev)")
			So(p, ShouldContainSubstring, "newest first")
			So(p, ShouldContainSubstring, prompt.Version)
		})
	})
}

func TestDigestLine(t *testing.T) {
	Convey("Given an analysis", t, func() {
		a := model.Analysis{
			MemberName:    "Ana",
			Role:          "QA",
			Understanding: "Launch v2",
			Verdict:       model.Verdict{Score: 85, Recommendation: model.RecommendationNone},
		}

		Convey("When the analysis is model-derived", func() {
			line := prompt.DigestLine(a)
			So(line, ShouldContainSubstring, "Ana (QA)")
			So(line, ShouldContainSubstring, "score 85")
			So(line, ShouldNotContainSubstring, "heuristic")
		})

		Convey("When the analysis came from the fallback", func() {
			a.IsFallback = true
			So(prompt.DigestLine(a), ShouldContainSubstring, "(heuristic)")
		})
	})
}
