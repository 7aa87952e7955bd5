package repository

import (
	"context"
	"sync"
	"time"

	"github.com/teamlens/alignd/internal/domain/model"
	"github.com/teamlens/alignd/pkg/metrics"
)

// MemStore implements Store in memory. Used by tests and by dev mode
// when no database path is configured.
type MemStore struct {
	mu       sync.RWMutex
	goals    map[string]model.Goal
	analyses []model.Analysis // append order == chronological order
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		goals: make(map[string]model.Goal),
	}
}

// PutGoal stores a goal; a reused code overwrites the previous goal.
func (s *MemStore) PutGoal(ctx context.Context, g model.Goal) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.Code] = g
	return nil
}

// GetGoal resolves a code to its active goal.
func (s *MemStore) GetGoal(ctx context.Context, code string) (model.Goal, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[code]
	if !ok {
		return model.Goal{}, ErrNotFound
	}
	return g, nil
}

// AppendAnalysis writes one immutable analysis record.
func (s *MemStore) AppendAnalysis(ctx context.Context, a model.Analysis) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, a)
	return nil
}

// RecentByTeam returns up to n analyses for a team code, newest first.
func (s *MemStore) RecentByTeam(ctx context.Context, code string, n int) ([]model.Analysis, error) {
	return s.recent(func(a model.Analysis) bool { return a.Code == code }, n)
}

// RecentByMember returns up to n analyses for a member, newest first.
func (s *MemStore) RecentByMember(ctx context.Context, name string, n int) ([]model.Analysis, error) {
	return s.recent(func(a model.Analysis) bool { return a.MemberName == name }, n)
}

func (s *MemStore) recent(match func(model.Analysis) bool, n int) ([]model.Analysis, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Analysis, 0, n)
	for i := len(s.analyses) - 1; i >= 0 && len(out) < n; i-- {
		if match(s.analyses[i]) {
			out = append(out, s.analyses[i])
		}
	}
	return out, nil
}

// CountGoals returns the number of stored goals.
func (s *MemStore) CountGoals(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals), nil
}

// CountAnalyses returns the number of stored analyses.
func (s *MemStore) CountAnalyses(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses), nil
}
