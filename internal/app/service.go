// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamlens/alignd/internal/adapters/gateway"
	"github.com/teamlens/alignd/internal/adapters/repository"
	"github.com/teamlens/alignd/internal/domain/heuristic"
	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/internal/domain/prompt"
	"github.com/teamlens/alignd/internal/domain/sanitize"
	"github.com/teamlens/alignd/pkg/logger"
	"github.com/teamlens/alignd/pkg/metrics"
)

const (
	defaultReportWindow    = 12
	defaultAlignmentsLimit = 100

	emptyReportMessage = "No alignment checks recorded yet. Ask the team to submit their understanding of the current goal first."
)

// unavailableGateway stands in when no gateway is configured, so the
// heuristic path carries all scoring.
type unavailableGateway struct{}

func (unavailableGateway) Complete(context.Context, string) (string, error) {
	return "", gateway.ErrUnavailable
}

// Service implements the API dependencies for the alignment system.
type Service struct {
	store   repository.Store
	gateway gateway.Client

	// Configuration
	reportWindow int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the goal/analysis store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGateway sets the text-completion gateway.
func WithGateway(client gateway.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.gateway = client
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReportWindow sets how many recent analyses feed a report.
func WithReportWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reportWindow = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:        repository.NewMemStore(),
		gateway:      unavailableGateway{},
		reportWindow: defaultReportWindow,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	return s
}

// PublishGoal stores a leader goal under its code and, best effort,
// asks the model for a kickoff plan. A reused code overwrites the
// previous goal. The plan is nil whenever the model cannot produce one;
// publication still succeeds.
func (s *Service) PublishGoal(ctx context.Context, g model.Goal) (model.Goal, *model.ProjectPlan, error) {
	g.Code = strings.TrimSpace(g.Code)
	if g.Code == "" || strings.TrimSpace(g.GoalText) == "" {
		return model.Goal{}, nil, fmt.Errorf("%w: code and goal_text are required", ErrValidation)
	}
	g.CreatedAt = time.Now().UTC()

	if err := s.store.PutGoal(ctx, g); err != nil {
		return model.Goal{}, nil, err
	}
	metrics.RecordGoalPublished()

	s.logger.Info(ctx, "goal published",
		logger.String("code", g.Code),
	)

	return g, s.kickoffPlan(ctx, g), nil
}

func (s *Service) kickoffPlan(ctx context.Context, g model.Goal) *model.ProjectPlan {
	raw, err := s.gateway.Complete(ctx, prompt.Plan(g.GoalText))
	if err != nil {
		s.logger.Warn(ctx, "kickoff plan unavailable",
			logger.String("code", g.Code),
			logger.Error(err),
		)
		return nil
	}
	plan, err := sanitize.Plan(raw)
	if err != nil {
		s.logger.Warn(ctx, "kickoff plan discarded",
			logger.String("code", g.Code),
			logger.Error(err),
		)
		return nil
	}
	return &plan
}

// GetGoal resolves a code to its active goal.
func (s *Service) GetGoal(ctx context.Context, code string) (model.Goal, error) {
	return s.store.GetGoal(ctx, strings.TrimSpace(code))
}

// Analyze scores one member submission against the goal registered
// under its code and persists the result.
//
// The returned analysis is valid even when err is non-nil: a storage
// failure still yields the computed analysis so the caller can show it
// alongside the error. An unknown code fails before any scoring or
// writes happen.
func (s *Service) Analyze(ctx context.Context, sub model.Submission) (model.Analysis, error) {
	sub = sub.Normalize()
	if sub.Code == "" || strings.TrimSpace(sub.Understanding) == "" {
		return model.Analysis{}, fmt.Errorf("%w: code and understanding are required", ErrValidation)
	}

	goal, err := s.store.GetGoal(ctx, sub.Code)
	if err != nil {
		return model.Analysis{}, err
	}

	verdict, fallback := s.score(ctx, goal, sub)

	analysis := model.Analysis{
		ID:            uuid.NewString(),
		Code:          sub.Code,
		MemberName:    sub.MemberName,
		Role:          sub.Role,
		Understanding: sub.Understanding,
		Verdict:       verdict,
		IsFallback:    fallback,
		CreatedAt:     time.Now().UTC(),
	}

	if fallback {
		metrics.RecordAnalysisFallback()
	} else {
		metrics.RecordAnalysisAI()
	}

	s.logger.Info(ctx, "submission analyzed",
		logger.String("code", sub.Code),
		logger.String("member", sub.MemberName),
		logger.Int("score", verdict.Score),
		logger.Bool("fallback", fallback),
	)

	// The record must land even if the client disconnects mid-request.
	if err := s.store.AppendAnalysis(context.WithoutCancel(ctx), analysis); err != nil {
		s.logger.Error(ctx, "analysis not persisted",
			logger.String("id", analysis.ID),
			logger.Error(err),
		)
		return analysis, fmt.Errorf("persist analysis: %w", err)
	}

	return analysis, nil
}

// score runs the model scoring path and falls back to the heuristic on
// any gateway or sanitizer failure. The second return reports whether
// the heuristic produced the verdict.
func (s *Service) score(ctx context.Context, goal model.Goal, sub model.Submission) (model.Verdict, bool) {
	raw, err := s.gateway.Complete(ctx, prompt.Alignment(goal, sub))
	if err != nil {
		s.logger.Warn(ctx, "model scoring unavailable, using heuristic",
			logger.String("code", sub.Code),
			logger.Error(err),
		)
		return heuristic.Score(sub.Understanding), true
	}

	verdict, err := sanitize.Verdict(raw)
	if err != nil {
		metrics.RecordSanitizerReject()
		s.logger.Warn(ctx, "model response rejected, using heuristic",
			logger.String("code", sub.Code),
			logger.Error(err),
		)
		return heuristic.Score(sub.Understanding), true
	}

	if verdict.Score < 0 || verdict.Score > 100 {
		metrics.RecordScoreClamp()
		s.logger.Warn(ctx, "model score out of range, clamping",
			logger.String("code", sub.Code),
			logger.Int("score", verdict.Score),
		)
		verdict.Score = clamp(verdict.Score, 0, 100)
	}

	return verdict, false
}

// GenerateReport summarizes the recent analyses in scope through the
// model. There is no heuristic fallback here: a gateway failure is a
// report failure.
func (s *Service) GenerateReport(ctx context.Context, scope model.ReportScope) (string, error) {
	if !scope.Valid() {
		return "", fmt.Errorf("%w: exactly one of user_id or team_code is required", ErrValidation)
	}

	var (
		recent []model.Analysis
		err    error
	)
	if scope.MemberName != "" {
		recent, err = s.store.RecentByMember(ctx, scope.MemberName, s.reportWindow)
	} else {
		recent, err = s.store.RecentByTeam(ctx, scope.TeamCode, s.reportWindow)
	}
	if err != nil {
		metrics.RecordReportError()
		return "", fmt.Errorf("load report window: %w", err)
	}

	if len(recent) == 0 {
		metrics.RecordReportGenerated()
		return emptyReportMessage, nil
	}

	lines := make([]string, len(recent))
	for i, a := range recent {
		lines[i] = prompt.DigestLine(a)
	}

	report, err := s.gateway.Complete(ctx, prompt.Report(lines))
	if err != nil {
		metrics.RecordReportError()
		return "", fmt.Errorf("%w: %v", ErrReportGeneration, err)
	}

	metrics.RecordReportGenerated()
	s.logger.Info(ctx, "report generated",
		logger.String("member", scope.MemberName),
		logger.String("team", scope.TeamCode),
		logger.Int("window", len(recent)),
	)

	return strings.TrimSpace(report), nil
}

// Alignments returns the recent analyses recorded for a team code,
// newest first.
func (s *Service) Alignments(ctx context.Context, code string) ([]model.Analysis, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}
	return s.store.RecentByTeam(ctx, code, defaultAlignmentsLimit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	stats := map[string]interface{}{
		"reportWindow": s.reportWindow,
	}

	if goals, err := s.store.CountGoals(ctx); err == nil {
		stats["totalGoals"] = goals
		metrics.UpdateTotalGoals(goals)
	}
	if analyses, err := s.store.CountAnalyses(ctx); err == nil {
		stats["totalAnalyses"] = analyses
		metrics.UpdateTotalAnalyses(analyses)
	}

	return stats
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
