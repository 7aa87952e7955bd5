package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/teamlens/alignd/internal/adapters/repository"
	service "github.com/teamlens/alignd/internal/app"
	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// stubGateway scripts gateway responses and records prompts.
type stubGateway struct {
	out     string
	err     error
	calls   int
	prompts []string
}

func (g *stubGateway) Complete(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

// brokenStore fails analysis writes while the rest of the store works.
type brokenStore struct {
	repository.Store
}

func (brokenStore) AppendAnalysis(context.Context, model.Analysis) error {
	return fmt.Errorf("append analysis: %w", repository.ErrUnavailable)
}

func newService(gw *stubGateway, store repository.Store) (*service.Service, repository.Store) {
	if store == nil {
		store = repository.NewMemStore()
	}
	return service.New(
		service.WithStore(store),
		service.WithGateway(gw),
	), store
}

func publishGoal(t *testing.T, store repository.Store, code, text string) {
	t.Helper()
	if err := store.PutGoal(context.Background(), model.Goal{Code: code, GoalText: text}); err != nil {
		t.Fatalf("put goal: %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a registered goal", t, func() {
		Convey("When the model scores a submission", func() {
			gw := &stubGateway{out: `{"score": 92, "recommendation": "NONE", "feedback": "well aligned"}`}
			svc, store := newService(gw, nil)
			publishGoal(t, store, "T1", "Ship v2 by Friday")

			got, err := svc.Analyze(ctx, model.Submission{
				Code:          "T1",
				MemberName:    "alice",
				Role:          "Engineer",
				Understanding: "We are shipping version two this week",
			})

			Convey("Then the model verdict is returned and persisted", func() {
				So(err, ShouldBeNil)
				So(got.Verdict.Score, ShouldEqual, 92)
				So(got.Verdict.Recommendation, ShouldEqual, model.RecommendationNone)
				So(got.IsFallback, ShouldBeFalse)
				So(got.ID, ShouldNotBeEmpty)

				stored, err := store.RecentByTeam(ctx, "T1", 5)
				So(err, ShouldBeNil)
				So(stored, ShouldHaveLength, 1)
				So(stored[0].ID, ShouldEqual, got.ID)
			})
		})

		Convey("When the gateway is down and the answer is detailed", func() {
			gw := &stubGateway{err: errors.New("dial tcp: connection refused")}
			svc, store := newService(gw, nil)
			publishGoal(t, store, "T1", "Ship v2 by Friday")

			got, err := svc.Analyze(ctx, model.Submission{
				Code:          "T1",
				MemberName:    "alice",
				Understanding: "We need to finish the release candidate and ship version two by Friday",
			})

			Convey("Then the heuristic produces a detailed-answer verdict", func() {
				So(err, ShouldBeNil)
				So(got.IsFallback, ShouldBeTrue)
				So(got.Verdict.Score, ShouldEqual, 85)
				So(got.Verdict.Recommendation, ShouldEqual, model.RecommendationNone)
				So(got.Verdict.Feedback, ShouldContainSubstring, "Heuristic")
			})
		})

		Convey("When the gateway is down and the answer is brief", func() {
			gw := &stubGateway{err: errors.New("dial tcp: connection refused")}
			svc, store := newService(gw, nil)
			publishGoal(t, store, "T1", "Ship v2 by Friday")

			got, err := svc.Analyze(ctx, model.Submission{Code: "T1", Understanding: "idk"})

			Convey("Then the heuristic flags a brief answer", func() {
				So(err, ShouldBeNil)
				So(got.IsFallback, ShouldBeTrue)
				So(got.Verdict.Score, ShouldEqual, 45)
				So(got.Verdict.Recommendation, ShouldEqual, model.RecommendationOneOnOne)
			})

			Convey("And the anonymous defaults are applied", func() {
				So(err, ShouldBeNil)
				So(got.MemberName, ShouldEqual, model.AnonymousMember)
				So(got.Role, ShouldEqual, model.UnspecifiedRole)
			})
		})

		Convey("When the model returns unusable JSON", func() {
			gw := &stubGateway{out: "I think the member understands the goal quite well."}
			svc, store := newService(gw, nil)
			publishGoal(t, store, "T1", "Ship v2 by Friday")

			got, err := svc.Analyze(ctx, model.Submission{
				Code:          "T1",
				Understanding: "We are shipping version two of the product by end of week",
			})

			Convey("Then the heuristic takes over", func() {
				So(err, ShouldBeNil)
				So(got.IsFallback, ShouldBeTrue)
				So(got.Verdict.Score, ShouldEqual, 85)
			})
		})

		Convey("When the model score is out of range", func() {
			gw := &stubGateway{out: `{"score": 150, "recommendation": "NONE", "feedback": "great"}`}
			svc, store := newService(gw, nil)
			publishGoal(t, store, "T1", "Ship v2 by Friday")

			got, err := svc.Analyze(ctx, model.Submission{Code: "T1", Understanding: "ship it soon"})

			Convey("Then the score is clamped without falling back", func() {
				So(err, ShouldBeNil)
				So(got.Verdict.Score, ShouldEqual, 100)
				So(got.IsFallback, ShouldBeFalse)
			})
		})

		Convey("When the code is unknown", func() {
			gw := &stubGateway{out: `{"score": 90, "recommendation": "NONE", "feedback": "x"}`}
			svc, store := newService(gw, nil)

			_, err := svc.Analyze(ctx, model.Submission{Code: "nope", Understanding: "whatever this is"})

			Convey("Then the call fails without scoring or writing", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(gw.calls, ShouldEqual, 0)

				n, err := store.CountAnalyses(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When required fields are missing", func() {
			svc, _ := newService(&stubGateway{}, nil)

			_, err := svc.Analyze(ctx, model.Submission{Code: "T1"})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)

			_, err = svc.Analyze(ctx, model.Submission{Understanding: "something"})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("When the store cannot persist the analysis", func() {
			mem := repository.NewMemStore()
			publishGoal(t, mem, "T1", "Ship v2 by Friday")
			gw := &stubGateway{out: `{"score": 70, "recommendation": "NONE", "feedback": "fine"}`}
			svc, _ := newService(gw, brokenStore{mem})

			got, err := svc.Analyze(ctx, model.Submission{Code: "T1", Understanding: "shipping soon I believe"})

			Convey("Then the analysis comes back alongside the error", func() {
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
				So(got.Verdict.Score, ShouldEqual, 70)
				So(got.ID, ShouldNotBeEmpty)
			})
		})
	})
}

func TestGenerateReport(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with recorded analyses", t, func() {
		seed := func(store repository.Store, member string, n int) {
			for i := 0; i < n; i++ {
				err := store.AppendAnalysis(ctx, model.Analysis{
					ID:            fmt.Sprintf("a-%s-%d", member, i),
					Code:          "T1",
					MemberName:    member,
					Role:          "Engineer",
					Understanding: "ship the thing",
					Verdict:       model.Verdict{Score: 80, Recommendation: model.RecommendationNone, Feedback: "ok"},
				})
				So(err, ShouldBeNil)
			}
		}

		Convey("When a member report is requested", func() {
			gw := &stubGateway{out: "  Alice is aligned and needs no meeting.  "}
			svc, store := newService(gw, nil)
			seed(store, "alice", 3)

			report, err := svc.GenerateReport(ctx, model.ReportScope{MemberName: "alice"})

			Convey("Then the model summary is returned trimmed", func() {
				So(err, ShouldBeNil)
				So(report, ShouldEqual, "Alice is aligned and needs no meeting.")
				So(gw.calls, ShouldEqual, 1)
				So(gw.prompts[0], ShouldContainSubstring, "alice")
			})
		})

		Convey("When the scope has no history", func() {
			gw := &stubGateway{out: "should not be used"}
			svc, _ := newService(gw, nil)

			report, err := svc.GenerateReport(ctx, model.ReportScope{MemberName: "nobody"})

			Convey("Then a canned message returns without a model call", func() {
				So(err, ShouldBeNil)
				So(report, ShouldContainSubstring, "No alignment checks")
				So(gw.calls, ShouldEqual, 0)
			})
		})

		Convey("When the gateway fails", func() {
			gw := &stubGateway{err: errors.New("rate limited")}
			svc, store := newService(gw, nil)
			seed(store, "alice", 2)

			_, err := svc.GenerateReport(ctx, model.ReportScope{MemberName: "alice"})

			Convey("Then the report fails without a fallback", func() {
				So(errors.Is(err, service.ErrReportGeneration), ShouldBeTrue)
			})
		})

		Convey("When the scope is ambiguous", func() {
			svc, _ := newService(&stubGateway{}, nil)

			_, err := svc.GenerateReport(ctx, model.ReportScope{})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)

			_, err = svc.GenerateReport(ctx, model.ReportScope{MemberName: "alice", TeamCode: "T1"})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("When a team report covers more records than the window", func() {
			gw := &stubGateway{out: "summary"}
			svc, store := newService(gw, nil)
			seed(store, "alice", 20)

			_, err := svc.GenerateReport(ctx, model.ReportScope{TeamCode: "T1"})

			Convey("Then only the window feeds the prompt", func() {
				So(err, ShouldBeNil)
				So(strings.Count(gw.prompts[0], "\n- "), ShouldEqual, 12)
			})
		})
	})
}

func TestPublishGoal(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		Convey("When a goal is published and the model plans it", func() {
			gw := &stubGateway{out: `{"projectName": "Ship v2", "tasks": ["cut branch", "run QA"]}`}
			svc, store := newService(gw, nil)

			goal, plan, err := svc.PublishGoal(ctx, model.Goal{Code: "T1", GoalText: "Ship v2 by Friday"})

			Convey("Then the goal is stored and the plan attached", func() {
				So(err, ShouldBeNil)
				So(goal.CreatedAt.IsZero(), ShouldBeFalse)
				So(plan, ShouldNotBeNil)
				So(plan.ProjectName, ShouldEqual, "Ship v2")
				So(plan.Tasks, ShouldHaveLength, 2)

				got, err := store.GetGoal(ctx, "T1")
				So(err, ShouldBeNil)
				So(got.GoalText, ShouldEqual, "Ship v2 by Friday")
			})
		})

		Convey("When the model cannot plan", func() {
			gw := &stubGateway{err: errors.New("boom")}
			svc, _ := newService(gw, nil)

			_, plan, err := svc.PublishGoal(ctx, model.Goal{Code: "T1", GoalText: "Ship v2"})

			Convey("Then publication still succeeds with no plan", func() {
				So(err, ShouldBeNil)
				So(plan, ShouldBeNil)
			})
		})

		Convey("When required fields are missing", func() {
			svc, _ := newService(&stubGateway{}, nil)

			_, _, err := svc.PublishGoal(ctx, model.Goal{Code: "T1"})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestAlignments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with analyses", t, func() {
		svc, store := newService(&stubGateway{}, nil)
		for i := 0; i < 3; i++ {
			err := store.AppendAnalysis(ctx, model.Analysis{
				ID:   fmt.Sprintf("a-%d", i),
				Code: "T1",
				Verdict: model.Verdict{
					Score:          60 + i,
					Recommendation: model.RecommendationNone,
				},
			})
			So(err, ShouldBeNil)
		}

		Convey("When a team's alignments are listed", func() {
			got, err := svc.Alignments(ctx, "T1")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 3)
			So(got[0].Verdict.Score, ShouldEqual, 62)
		})

		Convey("When the code is blank", func() {
			_, err := svc.Alignments(ctx, "  ")
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a service with some state", t, func() {
		ctx := context.Background()
		svc, store := newService(&stubGateway{}, nil)
		So(store.PutGoal(ctx, model.Goal{Code: "T1", GoalText: "x"}), ShouldBeNil)
		So(store.AppendAnalysis(ctx, model.Analysis{ID: "a-1", Code: "T1"}), ShouldBeNil)

		Convey("When stats are read", func() {
			stats := svc.GetStats()

			So(stats["totalGoals"], ShouldEqual, 1)
			So(stats["totalAnalyses"], ShouldEqual, 1)
			So(stats["reportWindow"], ShouldEqual, 12)
		})
	})
}
