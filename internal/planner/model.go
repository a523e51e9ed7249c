package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/llm"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/transcript"
)

// ModelPlanner asks the backend model to pick the action. The rendered
// transcript plus the new message is sent with an instruction to answer
// in the JSON action format; whatever comes back is parsed
// defensively. A reply that is not a recognized action is treated as
// plain prose and wrapped in a respond action, so model sloppiness
// degrades the turn, never aborts it.
type ModelPlanner struct {
	adapter *llm.Adapter
	logger  *slog.Logger
}

// NewModelPlanner creates a backend-driven planner on the given adapter.
func NewModelPlanner(adapter *llm.Adapter, logger *slog.Logger) *ModelPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelPlanner{
		adapter: adapter,
		logger:  logger.With("planner", "model"),
	}
}

// Decide implements Planner.
func (p *ModelPlanner) Decide(ctx context.Context, log *transcript.Log, userMessage string) action.Action {
	var b strings.Builder
	b.WriteString(log.Render())
	b.WriteString("User: ")
	b.WriteString(userMessage)
	b.WriteString("\n")
	b.WriteString(prompts.DecisionSuffix)

	raw := strings.TrimSpace(p.adapter.Generate(ctx, b.String()))
	if raw == "" {
		p.logger.Warn("backend returned no text for decision")
		return action.Respond(prompts.UnparseableOutputFallback)
	}

	res := action.Parse(raw)
	if res.Action == nil {
		// Not the JSON we asked for; take it as the reply itself.
		p.logger.Debug("decision output not an action, using as reply", "chars", len(raw))
		return action.Respond(raw)
	}

	p.logger.Debug("decision parsed", "kind", string(res.Action.Kind), "tool", res.Action.Name)
	return *res.Action
}
