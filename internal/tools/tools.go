// Package tools defines the tools available to the agent and the
// registry that resolves and executes them.
package tools

import (
	"context"
	"fmt"
	"sort"
)

// ArgKind is the accepted type of a tool argument.
type ArgKind string

const (
	// ArgString accepts JSON strings.
	ArgString ArgKind = "string"

	// ArgNumber accepts JSON numbers (integers or floats).
	ArgNumber ArgKind = "number"
)

// Arg declares one named argument in a tool's schema.
type Arg struct {
	Name        string
	Kind        ArgKind
	Required    bool
	Description string
}

// Tool represents a callable tool. Args is the explicit argument
// schema, validated before the handler runs — a mis-invocation is
// reported without ever entering the handler.
type Tool struct {
	Name        string
	Description string
	Args        []Arg
	Handler     func(ctx context.Context, args map[string]any) (string, error)
}

// validate checks the provided arguments against the schema: every
// required argument must be present with an acceptable type, and no
// unknown argument may appear.
func (t *Tool) validate(args map[string]any) error {
	byName := make(map[string]Arg, len(t.Args))
	for _, a := range t.Args {
		byName[a.Name] = a
	}

	for name := range args {
		if _, ok := byName[name]; !ok {
			return &ErrBadArgs{Tool: t.Name, Reason: fmt.Sprintf("unexpected argument %q", name)}
		}
	}

	for _, a := range t.Args {
		v, ok := args[a.Name]
		if !ok {
			if a.Required {
				return &ErrBadArgs{Tool: t.Name, Reason: fmt.Sprintf("missing required argument %q", a.Name)}
			}
			continue
		}
		if !acceptable(a.Kind, v) {
			return &ErrBadArgs{Tool: t.Name, Reason: fmt.Sprintf("argument %q must be a %s", a.Name, a.Kind)}
		}
	}

	return nil
}

// acceptable reports whether a decoded JSON value matches the declared
// kind. Numbers arrive from the wire as float64; handlers written
// against Go literals may also pass int.
func acceptable(kind ArgKind, v any) bool {
	switch kind {
	case ArgString:
		_, ok := v.(string)
		return ok
	case ArgNumber:
		switch v.(type) {
		case float64, int, int64:
			return true
		}
		return false
	default:
		return false
	}
}

// Registry holds available tools.
type Registry struct {
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get retrieves a tool by name, or nil.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute resolves a tool by name, validates the arguments against its
// schema, and runs the handler. A handler panic is contained here and
// reported as an error — nothing escapes the registry boundary.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result string, err error) {
	tool := r.tools[name]
	if tool == nil {
		return "", &ErrUnknownTool{Name: name}
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := tool.validate(args); err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = ""
			err = fmt.Errorf("tool %q panicked: %v", name, rec)
		}
	}()

	return tool.Handler(ctx, args)
}
