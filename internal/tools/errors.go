package tools

import "fmt"

// ErrUnknownTool is returned when a tool call names a tool that is not
// present in the registry.
type ErrUnknownTool struct {
	Name string
}

// Error implements the error interface.
func (e *ErrUnknownTool) Error() string {
	return fmt.Sprintf("tool %q is not implemented", e.Name)
}

// ErrBadArgs is returned when a tool call's arguments do not match the
// tool's declared schema. The handler is never invoked.
type ErrBadArgs struct {
	Tool   string
	Reason string
}

// Error implements the error interface.
func (e *ErrBadArgs) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Reason)
}
