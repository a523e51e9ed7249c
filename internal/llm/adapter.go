package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/prompts"
)

// Adapter wraps a backend Client and absorbs its failures. Once a turn
// has begun, no backend error may abort it, so Generate never fails:
// transport, authentication, and quota errors all come back as a
// serialized respond action carrying an apology and the raw error
// detail. Downstream parsing treats that payload like any other model
// output.
type Adapter struct {
	client Client
	logger *slog.Logger
}

// NewAdapter wraps a backend client.
func NewAdapter(client Client, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		client: client,
		logger: logger.With("provider", client.Name()),
	}
}

// Provider returns the wrapped client's name.
func (a *Adapter) Provider() string {
	return a.client.Name()
}

// Generate calls the backend and returns its text. On any backend
// error it returns the apology payload instead. A successful call with
// no usable text returns an empty string, which the caller treats as
// respond-with-apology, not as an error.
func (a *Adapter) Generate(ctx context.Context, prompt string) string {
	text, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("backend call failed", "error", err)
		return apologyPayload(err)
	}
	return text
}

// apologyPayload serializes the fallback respond action for a backend
// error.
func apologyPayload(err error) string {
	content := fmt.Sprintf("%s\n\nTechnical details: %v", prompts.BackendApology, err)
	encoded, encErr := action.Encode(action.Respond(content))
	if encErr != nil {
		// Encoding a respond action cannot realistically fail; fall
		// back to the bare apology text so the user still gets a reply.
		return content
	}
	return encoded
}
