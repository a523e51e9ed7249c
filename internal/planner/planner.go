// Package planner produces the structured action for each turn: answer
// directly, or call a named tool. Two interchangeable strategies share
// the [Planner] contract — an offline rule engine and a model-backed
// planner — selected once at agent construction and never mixed within
// a session.
package planner

import (
	"context"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/transcript"
)

// Planner decides the single action for one user turn. Implementations
// must not fail: every degenerate case degrades to a respond action.
type Planner interface {
	// Decide returns the action for the new user message given the
	// conversation so far.
	Decide(ctx context.Context, log *transcript.Log, userMessage string) action.Action
}
