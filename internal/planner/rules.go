package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/transcript"
)

// DefaultReminderMinutes is the delay used for rule-planned reminders,
// which have no way to express a specific time.
const DefaultReminderMinutes = 5

// RulePlanner is the offline decision engine. It scans the lower-cased
// user message for keyword triggers and returns the first match, with
// no network round trip.
//
// Trigger order is a deliberate tie-break and must be preserved: the
// phrases overlap ("reminder" appears in both the check triggers and
// the set trigger), so reminder-check phrasing is tested before
// remember, then recall, then search, then remind. First match wins.
type RulePlanner struct {
	logger *slog.Logger
}

// NewRulePlanner creates the offline rule engine.
func NewRulePlanner(logger *slog.Logger) *RulePlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &RulePlanner{logger: logger.With("planner", "rules")}
}

// Decide implements Planner. The transcript is unused: rule decisions
// depend only on the new message.
func (p *RulePlanner) Decide(ctx context.Context, log *transcript.Log, userMessage string) action.Action {
	msg := strings.ToLower(userMessage)

	switch {
	case strings.Contains(msg, "check reminders"),
		strings.Contains(msg, "any reminders"),
		strings.Contains(msg, "show my reminders"):
		p.logger.Debug("rule matched", "tool", "check_reminders")
		return action.ToolCall("check_reminders", nil)

	case strings.Contains(msg, "remember"):
		note := strings.TrimSpace(strings.Replace(userMessage, "remember that", "", 1))
		if note == "" {
			note = userMessage
		}
		p.logger.Debug("rule matched", "tool", "remember_info")
		return action.ToolCall("remember_info", map[string]any{"note": note})

	case strings.Contains(msg, "recall"),
		strings.Contains(msg, "what do you remember"),
		strings.Contains(msg, "memory"):
		p.logger.Debug("rule matched", "tool", "recall_memory")
		return action.ToolCall("recall_memory", nil)

	case strings.Contains(msg, "search"),
		strings.Contains(msg, "news"):
		p.logger.Debug("rule matched", "tool", "web_search")
		return action.ToolCall("web_search", map[string]any{"query": userMessage})

	case strings.Contains(msg, "remind"),
		strings.Contains(msg, "reminder"):
		p.logger.Debug("rule matched", "tool", "set_reminder")
		return action.ToolCall("set_reminder", map[string]any{
			"message":          userMessage,
			"minutes_from_now": DefaultReminderMinutes,
		})

	default:
		p.logger.Debug("no rule matched, echoing")
		return action.Respond(prompts.OfflineEchoPrefix + userMessage)
	}
}
