package sanitize_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/internal/domain/sanitize"
)

func TestVerdict(t *testing.T) {
	Convey("Given raw model output", t, func() {
		Convey("When the output is clean JSON", func() {
			v, err := sanitize.Verdict(`{"score": 82, "recommendation": "NONE", "feedback": "Looks aligned."}`)

			Convey("Then it parses", func() {
				So(err, ShouldBeNil)
				So(v.Score, ShouldEqual, 82)
				So(v.Recommendation, ShouldEqual, model.RecommendationNone)
				So(v.Feedback, ShouldEqual, "Looks aligned.")
			})
		})

		Convey("When the output is fenced", func() {
			raw := "```json\n{\"score\": 60, \"recommendation\": \"ONE_ON_ONE\", \"feedback\": \"Talk it through.\"}\n```"
			v, err := sanitize.Verdict(raw)
			So(err, ShouldBeNil)
			So(v.Score, ShouldEqual, 60)
			So(v.Recommendation, ShouldEqual, model.RecommendationOneOnOne)
		})

		Convey("When the output is wrapped in prose", func() {
			raw := "Sure! Here is the analysis you asked for:\n{\"score\": 70, \"recommendation\": \"needs review\", \"feedback\": \"Check scope.\"}\nHope that helps."
			v, err := sanitize.Verdict(raw)
			So(err, ShouldBeNil)
			So(v.Score, ShouldEqual, 70)
			So(v.Recommendation, ShouldEqual, model.RecommendationNeedsReview)
		})

		Convey("When sanitization is applied twice", func() {
			raw := `{"score": 82, "recommendation": "NONE", "feedback": "ok"}`
			first, err1 := sanitize.Verdict(raw)
			second, err2 := sanitize.Verdict(raw)

			Convey("Then the result is identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When the score is out of range", func() {
			v, err := sanitize.Verdict(`{"score": 150, "recommendation": "NONE", "feedback": "x"}`)

			Convey("Then it passes through for scorer-level clamping", func() {
				So(err, ShouldBeNil)
				So(v.Score, ShouldEqual, 150)
			})
		})

		Convey("When the score is fractional", func() {
			v, err := sanitize.Verdict(`{"score": 87.4, "recommendation": "NONE", "feedback": "x"}`)
			So(err, ShouldBeNil)
			So(v.Score, ShouldEqual, 87)
		})

		Convey("When the output is plain prose", func() {
			_, err := sanitize.Verdict("The member seems fairly well aligned with the goal.")
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})

		Convey("When a field is missing", func() {
			_, err := sanitize.Verdict(`{"score": 80, "feedback": "x"}`)
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the score is a string", func() {
			_, err := sanitize.Verdict(`{"score": "eighty", "recommendation": "NONE", "feedback": "x"}`)
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the recommendation is unknown", func() {
			_, err := sanitize.Verdict(`{"score": 80, "recommendation": "PANIC", "feedback": "x"}`)
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the input is empty", func() {
			_, err := sanitize.Verdict("")
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestPlan(t *testing.T) {
	Convey("Given raw plan output", t, func() {
		Convey("When the output is fenced JSON", func() {
			raw := "```json\n{\"projectName\": \"V2 Launch\", \"tasks\": [\"write tests\", \"cut release\"]}\n```"
			p, err := sanitize.Plan(raw)

			So(err, ShouldBeNil)
			So(p.ProjectName, ShouldEqual, "V2 Launch")
			So(p.Tasks, ShouldHaveLength, 2)
		})

		Convey("When the project name is missing", func() {
			_, err := sanitize.Plan(`{"tasks": ["a"]}`)
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the output is not JSON", func() {
			_, err := sanitize.Plan("no plan today")
			So(errors.Is(err, sanitize.ErrMalformed), ShouldBeTrue)
		})
	})
}
