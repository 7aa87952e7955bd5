package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/teamlens/alignd/internal/domain/model"
)

func TestParseRecommendation(t *testing.T) {
	Convey("Given recommendation wire labels", t, func() {
		Convey("When parsing canonical labels", func() {
			cases := map[string]model.Recommendation{
				"NONE":         model.RecommendationNone,
				"ONE_ON_ONE":   model.RecommendationOneOnOne,
				"NEEDS_REVIEW": model.RecommendationNeedsReview,
			}
			for in, want := range cases {
				got, ok := model.ParseRecommendation(in)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When parsing is case-insensitive", func() {
			got, ok := model.ParseRecommendation("none")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, model.RecommendationNone)

			got, ok = model.ParseRecommendation("Needs Review")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, model.RecommendationNeedsReview)
		})

		Convey("When parsing model variants", func() {
			got, ok := model.ParseRecommendation("1:1 Meeting")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, model.RecommendationOneOnOne)

			got, ok = model.ParseRecommendation("  one-on-one ")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, model.RecommendationOneOnOne)
		})

		Convey("When the label is unknown", func() {
			_, ok := model.ParseRecommendation("maybe later")
			So(ok, ShouldBeFalse)

			_, ok = model.ParseRecommendation("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSubmissionNormalize(t *testing.T) {
	Convey("Given a submission", t, func() {
		Convey("When optional fields are empty", func() {
			sub := model.Submission{Code: "  T1 ", Understanding: "ship it"}
			norm := sub.Normalize()

			Convey("Then defaults are applied and the code is trimmed", func() {
				So(norm.Code, ShouldEqual, "T1")
				So(norm.MemberName, ShouldEqual, model.AnonymousMember)
				So(norm.Role, ShouldEqual, model.UnspecifiedRole)
				So(norm.Understanding, ShouldEqual, "ship it")
			})
		})

		Convey("When fields are present they are preserved", func() {
			sub := model.Submission{Code: "T1", MemberName: "Ana", Role: "QA", Understanding: "x"}
			norm := sub.Normalize()
			So(norm.MemberName, ShouldEqual, "Ana")
			So(norm.Role, ShouldEqual, "QA")
		})
	})
}

func TestReportScopeValid(t *testing.T) {
	Convey("Given report scopes", t, func() {
		So(model.ReportScope{MemberName: "ana@example.com"}.Valid(), ShouldBeTrue)
		So(model.ReportScope{TeamCode: "T1"}.Valid(), ShouldBeTrue)
		So(model.ReportScope{}.Valid(), ShouldBeFalse)
		So(model.ReportScope{MemberName: "a", TeamCode: "T1"}.Valid(), ShouldBeFalse)
	})
}
