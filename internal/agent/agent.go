// Package agent runs the turn loop: one user message in, one planner
// decision, at most one tool execution, one reply out. The agent owns
// the transcript and is the only writer to it.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/llm"
	"github.com/jmalhotra/valet/internal/planner"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/tools"
	"github.com/jmalhotra/valet/internal/transcript"
)

// Agent dispatches user turns. It is not safe for concurrent use: a
// session processes turns strictly one at a time.
type Agent struct {
	planner  planner.Planner
	registry *tools.Registry
	adapter  *llm.Adapter // nil in offline mode
	log      *transcript.Log
	logger   *slog.Logger
}

// Config carries the agent's collaborators. Adapter may be nil, in
// which case tool outcomes are formatted locally instead of being
// summarized by the model.
type Config struct {
	Planner  planner.Planner
	Registry *tools.Registry
	Adapter  *llm.Adapter
	Log      *transcript.Log
	Logger   *slog.Logger
}

// New assembles an agent.
func New(cfg Config) *Agent {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		planner:  cfg.Planner,
		registry: cfg.Registry,
		adapter:  cfg.Adapter,
		log:      cfg.Log,
		logger:   logger,
	}
}

// Transcript exposes the conversation log, mainly for tests and the
// REPL's debugging commands.
func (a *Agent) Transcript() *transcript.Log {
	return a.log
}

// Chat processes one user message and returns the reply. It never
// fails: backend errors, tool errors, and malformed model output all
// degrade to a user-presentable reply. The transcript gains exactly two
// turns per call — the user message and the final reply.
func (a *Agent) Chat(ctx context.Context, userMessage string) string {
	turnID := uuid.NewString()
	logger := a.logger.With("turn_id", turnID)
	logger.Info("turn started", "chars", len(userMessage))

	act := a.planner.Decide(ctx, a.log, userMessage)

	var reply string
	switch act.Kind {
	case action.KindTool:
		reply = a.runTool(ctx, logger, userMessage, act)
	default:
		reply = strings.TrimSpace(act.Content)
		if reply == "" {
			logger.Warn("respond action had no content")
			reply = prompts.EmptyRespondFallback
		}
	}

	a.log.Append(transcript.RoleUser, userMessage)
	a.log.Append(transcript.RoleAssistant, reply)

	logger.Info("turn finished", "reply_chars", len(reply))
	return reply
}

// runTool executes the planned tool and produces the user-facing reply
// for its outcome. A failed tool is folded into the result text and
// summarized like a success: the user hears what went wrong in plain
// language instead of the turn aborting.
func (a *Agent) runTool(ctx context.Context, logger *slog.Logger, userMessage string, act action.Action) string {
	logger.Info("executing tool", "tool", act.Name)

	result, err := a.registry.Execute(ctx, act.Name, act.Args)
	if err != nil {
		logger.Error("tool execution failed", "tool", act.Name, "error", err)
		result = "Error: " + err.Error()
	}

	if a.adapter == nil {
		return fmt.Sprintf("(Offline mode) I used tool %q and got this result:\n\n%s", act.Name, result)
	}

	return a.summarize(ctx, logger, userMessage, act, result)
}

// summarize makes the second backend call of a tool turn, asking the
// model to phrase the tool outcome as the final answer. Models
// sometimes ignore the no-JSON instruction and reply with a respond
// action anyway; that wrapper is unwrapped here so raw JSON never
// reaches the user.
func (a *Agent) summarize(ctx context.Context, logger *slog.Logger, userMessage string, act action.Action, result string) string {
	argsJSON, err := action.Encode(act)
	if err != nil {
		argsJSON = act.Name
	}

	var b strings.Builder
	b.WriteString(a.log.Render())
	b.WriteString("User: ")
	b.WriteString(userMessage)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tool used: %s\n", act.Name)
	fmt.Fprintf(&b, "Tool call: %s\n", argsJSON)
	fmt.Fprintf(&b, "Tool result:\n%s\n\n", result)
	b.WriteString(prompts.FollowupSuffix)

	raw := strings.TrimSpace(a.adapter.Generate(ctx, b.String()))

	if res := action.Parse(raw); res.Action != nil && res.Action.Kind == action.KindRespond {
		raw = strings.TrimSpace(res.Action.Content)
	}

	if raw == "" {
		logger.Warn("followup call yielded no text", "tool", act.Name)
		return prompts.ToolNoAnswerFallback
	}
	return raw
}
