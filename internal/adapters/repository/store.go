// Package repository defines the goal/result store contract and its
// implementations.
//
// Goals are a key-value space with last-write-wins semantics per code.
// Analyses are append-only: each record carries its own generated
// identifier, so concurrent appends never contend on a shared slot.
package repository

import (
	"context"

	"github.com/teamlens/alignd/internal/domain/model"
)

// Store provides durable access to goals and analyses.
type Store interface {
	// PutGoal stores a goal under its code, replacing any previous goal
	// with the same code.
	PutGoal(ctx context.Context, g model.Goal) error

	// GetGoal resolves a code to its active goal.
	// Returns ErrNotFound for unknown codes.
	GetGoal(ctx context.Context, code string) (model.Goal, error)

	// AppendAnalysis writes one immutable analysis record.
	AppendAnalysis(ctx context.Context, a model.Analysis) error

	// RecentByTeam returns up to n analyses for a team code, newest first.
	RecentByTeam(ctx context.Context, code string, n int) ([]model.Analysis, error)

	// RecentByMember returns up to n analyses for a member, newest first.
	RecentByMember(ctx context.Context, name string, n int) ([]model.Analysis, error)

	// CountGoals returns the number of stored goals.
	CountGoals(ctx context.Context) (int, error)

	// CountAnalyses returns the number of stored analyses.
	CountAnalyses(ctx context.Context) (int, error)
}
