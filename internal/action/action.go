// Package action defines the structured decision the planner produces
// once per turn, its JSON wire format, and a defensive parser for
// model output that cannot be trusted to be well-formed.
//
// The wire format is a single JSON object in one of two shapes:
//
//	{"action": "respond", "content": "<text>"}
//	{"action": "tool", "name": "<tool_name>", "args": {...}}
//
// Anything else degrades to raw-text handling — see [Parse].
package action

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind discriminates the two Action variants.
type Kind string

const (
	// KindRespond answers the user directly.
	KindRespond Kind = "respond"

	// KindTool invokes a named tool before answering.
	KindTool Kind = "tool"
)

// Action is the tagged decision value. Exactly one variant's fields are
// meaningful: Content for KindRespond, Name/Args for KindTool.
type Action struct {
	Kind    Kind
	Content string
	Name    string
	Args    map[string]any
}

// Respond builds a direct-answer action.
func Respond(content string) Action {
	return Action{Kind: KindRespond, Content: content}
}

// ToolCall builds a tool-invocation action. A nil args map is stored as
// an empty map so dispatch never sees nil.
func ToolCall(name string, args map[string]any) Action {
	if args == nil {
		args = map[string]any{}
	}
	return Action{Kind: KindTool, Name: name, Args: args}
}

// wireAction is the JSON shape shared by both variants.
type wireAction struct {
	Action  string         `json:"action"`
	Content string         `json:"content,omitempty"`
	Name    string         `json:"name,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
}

// Encode serializes an Action to its wire format.
func Encode(a Action) (string, error) {
	w := wireAction{Action: string(a.Kind)}
	switch a.Kind {
	case KindRespond:
		w.Content = a.Content
	case KindTool:
		w.Name = a.Name
		w.Args = a.Args
	default:
		return "", fmt.Errorf("unknown action kind %q", a.Kind)
	}

	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encode action: %w", err)
	}
	return string(data), nil
}

// Result is the sum-type outcome of parsing model output: either a
// recognized Action, or the raw text to be used verbatim as the reply.
type Result struct {
	// Action is set when the text parsed as a recognized action shape.
	Action *Action

	// Raw is the original text. When Action is nil, Raw is the reply.
	Raw string
}

// Parse decodes model output into a Result. It never fails: text that
// is not valid JSON, or that parses without a recognized "action"
// discriminator, comes back as raw text. These are deliberate
// degrade-to-text outcomes, not errors — structured-output compliance
// from a model cannot be guaranteed.
func Parse(raw string) Result {
	var w wireAction
	if err := json.UnmarshalFromString(raw, &w); err != nil {
		return Result{Raw: raw}
	}

	switch Kind(w.Action) {
	case KindRespond:
		a := Respond(w.Content)
		return Result{Action: &a, Raw: raw}
	case KindTool:
		a := ToolCall(w.Name, w.Args)
		return Result{Action: &a, Raw: raw}
	default:
		// Parsed, but no recognizable discriminator.
		return Result{Raw: raw}
	}
}
