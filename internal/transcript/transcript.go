// Package transcript owns the conversation history for one agent
// session. History is kept as an ordered sequence of discrete turn
// records; rendering to a prompt string is a pure function over that
// sequence. Compaction is a lossy truncation that bounds prompt size
// while always preserving the system instruction prefix.
package transcript

import "strings"

// Roles recorded in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Default size limits, measured in characters of the rendered prompt.
const (
	// DefaultMaxChars is the rendered-length budget that triggers
	// compaction.
	DefaultMaxChars = 8000

	// DefaultKeepTail is how much of the previous rendering survives a
	// compaction.
	DefaultKeepTail = 4000
)

// Turn is a single (role, text) entry.
type Turn struct {
	Role string
	Text string
}

// Log is the append-only conversation history. It is not safe for
// concurrent use; the agent mutates it only between turns.
type Log struct {
	system   string // system instruction, always the rendered prefix
	notice   string // compaction notice, shown when tail is non-empty
	tail     string // trailing window of the pre-compaction rendering
	turns    []Turn // turns appended since the last compaction
	maxChars int
	keepTail int
}

// Option configures a Log.
type Option func(*Log)

// WithMaxChars overrides the rendered-length budget.
func WithMaxChars(n int) Option {
	return func(l *Log) { l.maxChars = n }
}

// WithKeepTail overrides how many characters survive compaction.
func WithKeepTail(n int) Option {
	return func(l *Log) { l.keepTail = n }
}

// New creates a Log with the given system instruction and compaction
// notice text.
func New(system, notice string, opts ...Option) *Log {
	l := &Log{
		system:   strings.TrimSpace(system),
		notice:   notice,
		maxChars: DefaultMaxChars,
		keepTail: DefaultKeepTail,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Append records a turn and compacts if the rendering now exceeds the
// budget.
func (l *Log) Append(role, text string) {
	l.turns = append(l.turns, Turn{Role: role, Text: text})
	l.Compact()
}

// Turns returns a copy of the turns recorded since the last compaction.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Render produces the full prompt text: system instruction, then the
// compaction remnant (if any), then every turn since. It never mutates
// the log.
func (l *Log) Render() string {
	var b strings.Builder
	b.WriteString(l.system)
	b.WriteString("\n\n")

	if l.tail != "" {
		b.WriteString(l.notice)
		b.WriteString("\n\n")
		b.WriteString(l.tail)
		if !strings.HasSuffix(l.tail, "\n") {
			b.WriteString("\n")
		}
	}

	for _, t := range l.turns {
		b.WriteString(roleLabel(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}

	return b.String()
}

// Compact truncates history when the rendering exceeds the budget,
// keeping only the trailing window of the previous rendering behind
// the compaction notice. Lossy and non-reversible. The system
// instruction survives every compaction, no matter how many times it
// runs.
func (l *Log) Compact() {
	rendered := l.Render()
	if len(rendered) <= l.maxChars {
		return
	}

	tail := rendered
	if len(tail) > l.keepTail {
		tail = tail[len(tail)-l.keepTail:]
	}

	l.tail = tail
	l.turns = nil
}

// roleLabel maps a role constant to its prompt label.
func roleLabel(role string) string {
	switch role {
	case RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}
