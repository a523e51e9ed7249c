package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/prompts"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestAdapterGenerate_PassesThrough(t *testing.T) {
	a := NewAdapter(&stubClient{response: "model says hi"}, nil)

	got := a.Generate(context.Background(), "prompt")
	if got != "model says hi" {
		t.Errorf("Generate = %q", got)
	}
}

func TestAdapterGenerate_ErrorBecomesRespondAction(t *testing.T) {
	a := NewAdapter(&stubClient{err: errors.New("401 unauthorized")}, nil)

	got := a.Generate(context.Background(), "prompt")

	res := action.Parse(got)
	if res.Action == nil {
		t.Fatalf("apology payload should parse as an action: %q", got)
	}
	if res.Action.Kind != action.KindRespond {
		t.Errorf("kind = %q, want respond", res.Action.Kind)
	}
	if !strings.Contains(res.Action.Content, prompts.BackendApology) {
		t.Errorf("content missing apology: %q", res.Action.Content)
	}
	if !strings.Contains(res.Action.Content, "401 unauthorized") {
		t.Errorf("content missing error detail: %q", res.Action.Content)
	}
}

func TestAdapterGenerate_EmptyIsNotAnError(t *testing.T) {
	a := NewAdapter(&stubClient{response: ""}, nil)

	if got := a.Generate(context.Background(), "prompt"); got != "" {
		t.Errorf("Generate = %q, want empty passthrough", got)
	}
}

func TestAdapterProvider(t *testing.T) {
	a := NewAdapter(&stubClient{}, nil)
	if got := a.Provider(); got != "stub" {
		t.Errorf("Provider = %q, want stub", got)
	}
}
