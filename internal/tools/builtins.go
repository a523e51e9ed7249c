package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmalhotra/valet/internal/notes"
	"github.com/jmalhotra/valet/internal/reminders"
	"github.com/jmalhotra/valet/internal/search"
)

// RecallLimit is how many recent notes recall_memory returns.
const RecallLimit = 20

// Builtins collects the dependencies for the standard tool set.
type Builtins struct {
	Search    search.Provider
	Files     *FileReader
	Notes     *notes.Store
	Reminders *reminders.Store
	Logger    *slog.Logger
}

// NewBuiltinRegistry creates a registry populated with the six
// standard tools. Tools prefer returning descriptive strings over
// errors: a failed search or a missing file is an answer for the user,
// not a fault in the turn.
func NewBuiltinRegistry(b Builtins) *Registry {
	if b.Logger == nil {
		b.Logger = slog.Default()
	}

	r := NewRegistry()

	r.Register(&Tool{
		Name:        "web_search",
		Description: "Search the web for recent or dynamic information.",
		Args: []Arg{
			{Name: "query", Kind: ArgString, Required: true, Description: "search text"},
		},
		Handler: b.handleWebSearch,
	})

	r.Register(&Tool{
		Name:        "read_file",
		Description: "Read a small text file from the local workspace.",
		Args: []Arg{
			{Name: "path", Kind: ArgString, Required: true, Description: "relative path inside the workspace"},
		},
		Handler: b.handleReadFile,
	})

	r.Register(&Tool{
		Name:        "remember_info",
		Description: "Save an important note to long-term memory.",
		Args: []Arg{
			{Name: "note", Kind: ArgString, Required: true, Description: "text to remember"},
		},
		Handler: b.handleRememberInfo,
	})

	r.Register(&Tool{
		Name:        "recall_memory",
		Description: "Show previously saved notes from long-term memory.",
		Handler:     b.handleRecallMemory,
	})

	r.Register(&Tool{
		Name:        "set_reminder",
		Description: "Create a reminder N minutes from now.",
		Args: []Arg{
			{Name: "message", Kind: ArgString, Required: true, Description: "reminder text"},
			{Name: "minutes_from_now", Kind: ArgNumber, Required: true, Description: "delay in minutes"},
		},
		Handler: b.handleSetReminder,
	})

	r.Register(&Tool{
		Name:        "check_reminders",
		Description: "Check which reminders are due now.",
		Handler:     b.handleCheckReminders,
	})

	return r
}

func (b Builtins) handleWebSearch(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	b.Logger.Info("tool web_search", "query", query)

	if b.Search == nil {
		return "Web search is not available: no search provider is configured.", nil
	}

	results, err := b.Search.Search(ctx, query, search.Options{Count: 5})
	if err != nil {
		b.Logger.Error("web search failed", "error", err)
		return fmt.Sprintf("Web search failed: %v", err), nil
	}

	if len(results) == 0 {
		return fmt.Sprintf("No results found for: %s", query), nil
	}

	return search.FormatResults(results), nil
}

func (b Builtins) handleReadFile(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	b.Logger.Info("tool read_file", "path", path)

	if b.Files == nil {
		return "File reading is not available: no workspace is configured.", nil
	}

	return b.Files.Read(path)
}

func (b Builtins) handleRememberInfo(ctx context.Context, args map[string]any) (string, error) {
	text, _ := args["note"].(string)
	b.Logger.Info("tool remember_info", "chars", len(text))

	note, err := b.Notes.Add(text)
	if err != nil {
		return "", fmt.Errorf("save note: %w", err)
	}

	return fmt.Sprintf("I've saved this to memory at %s.", note.Timestamp.Format("2006-01-02 15:04:05")), nil
}

func (b Builtins) handleRecallMemory(ctx context.Context, args map[string]any) (string, error) {
	b.Logger.Info("tool recall_memory")

	recent := b.Notes.Recent(RecallLimit)
	if len(recent) == 0 {
		return "I don't have any saved memory yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("Here are the memories I have:\n")
	for _, n := range recent {
		fmt.Fprintf(&sb, "\n- [%s] %s", n.Timestamp.Format("2006-01-02 15:04:05"), n.Text)
	}
	return sb.String(), nil
}

func (b Builtins) handleSetReminder(ctx context.Context, args map[string]any) (string, error) {
	message, _ := args["message"].(string)
	minutes := intArg(args["minutes_from_now"])
	b.Logger.Info("tool set_reminder", "minutes", minutes)

	reminder, err := b.Reminders.Set(message, minutes)
	if err != nil {
		return "", fmt.Errorf("save reminder: %w", err)
	}

	return fmt.Sprintf("Reminder set: %q in about %d minute(s), around %s.",
		message, minutes, reminder.DueAt.Format("2006-01-02 15:04:05")), nil
}

func (b Builtins) handleCheckReminders(ctx context.Context, args map[string]any) (string, error) {
	b.Logger.Info("tool check_reminders")

	due, err := b.Reminders.CheckDue(time.Now())
	if err != nil {
		return "", fmt.Errorf("check reminders: %w", err)
	}

	if len(due) == 0 {
		return "You don't have any reminders due right now.", nil
	}

	var sb strings.Builder
	sb.WriteString("Here are your due reminders:")
	for _, r := range due {
		fmt.Fprintf(&sb, "\n- %s (due at %s)", r.Message, r.DueAt.Format("2006-01-02 15:04:05"))
	}
	return sb.String(), nil
}

// intArg coerces a schema-validated number argument to int. JSON
// numbers decode as float64; handlers invoked from Go code may pass
// int directly.
func intArg(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
