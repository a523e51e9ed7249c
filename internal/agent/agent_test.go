package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/llm"
	"github.com/jmalhotra/valet/internal/planner"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/tools"
	"github.com/jmalhotra/valet/internal/transcript"
)

// scriptedPlanner returns a fixed action for every turn.
type scriptedPlanner struct {
	act action.Action
}

func (p *scriptedPlanner) Decide(ctx context.Context, log *transcript.Log, userMessage string) action.Action {
	return p.act
}

// scriptedClient replays a queue of canned backend responses.
type scriptedClient struct {
	responses []string
	err       error
	prompts   []string
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	r.Register(&tools.Tool{
		Name:        "echo_tool",
		Description: "echoes its input",
		Args: []tools.Arg{
			{Name: "text", Kind: tools.ArgString, Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			text, _ := args["text"].(string)
			return "echo: " + text, nil
		},
	})
	return r
}

func newOfflineAgent(t *testing.T, p planner.Planner) *Agent {
	t.Helper()
	return New(Config{
		Planner:  p,
		Registry: testRegistry(t),
		Log:      transcript.New("system", "[compacted]"),
	})
}

func newOnlineAgent(t *testing.T, p planner.Planner, client *scriptedClient) *Agent {
	t.Helper()
	return New(Config{
		Planner:  p,
		Registry: testRegistry(t),
		Adapter:  llm.NewAdapter(client, nil),
		Log:      transcript.New("system", "[compacted]"),
	})
}

func TestChat_RespondPath(t *testing.T) {
	a := newOfflineAgent(t, &scriptedPlanner{act: action.Respond("hello!")})

	got := a.Chat(context.Background(), "hi")
	if got != "hello!" {
		t.Errorf("reply = %q, want %q", got, "hello!")
	}
}

func TestChat_EmptyRespondFallback(t *testing.T) {
	a := newOfflineAgent(t, &scriptedPlanner{act: action.Respond("  \n ")})

	got := a.Chat(context.Background(), "hi")
	if got != prompts.EmptyRespondFallback {
		t.Errorf("reply = %q, want the empty-respond fallback", got)
	}
}

func TestChat_ToolPathOffline(t *testing.T) {
	a := newOfflineAgent(t, &scriptedPlanner{
		act: action.ToolCall("echo_tool", map[string]any{"text": "ping"}),
	})

	got := a.Chat(context.Background(), "use the tool")
	if !strings.Contains(got, "(Offline mode)") {
		t.Errorf("offline tool reply missing marker: %q", got)
	}
	if !strings.Contains(got, "echo: ping") {
		t.Errorf("offline tool reply missing result: %q", got)
	}
}

func TestChat_UnknownToolIsCoherent(t *testing.T) {
	a := newOfflineAgent(t, &scriptedPlanner{
		act: action.ToolCall("teleport", map[string]any{}),
	})

	got := a.Chat(context.Background(), "teleport me")
	if !strings.Contains(got, "Error:") {
		t.Errorf("unknown tool should fold into an error reply, got %q", got)
	}
	if !strings.Contains(got, "teleport") {
		t.Errorf("reply should name the tool, got %q", got)
	}
}

func TestChat_ToolPathOnlineSummarized(t *testing.T) {
	client := &scriptedClient{responses: []string{"I echoed ping for you."}}
	a := newOnlineAgent(t, &scriptedPlanner{
		act: action.ToolCall("echo_tool", map[string]any{"text": "ping"}),
	}, client)

	got := a.Chat(context.Background(), "use the tool")
	if got != "I echoed ping for you." {
		t.Errorf("reply = %q, want the summarized answer", got)
	}

	if len(client.prompts) != 1 {
		t.Fatalf("backend calls = %d, want 1 followup call", len(client.prompts))
	}
	p := client.prompts[0]
	if !strings.Contains(p, "echo: ping") {
		t.Errorf("followup prompt missing the tool result:\n%s", p)
	}
	if !strings.HasSuffix(p, prompts.FollowupSuffix) {
		t.Errorf("followup prompt should end with the followup suffix:\n%s", p)
	}
}

func TestChat_FollowupUnwrapsRespondJSON(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"action": "respond", "content": "Done, echoed it."}`}}
	a := newOnlineAgent(t, &scriptedPlanner{
		act: action.ToolCall("echo_tool", map[string]any{"text": "x"}),
	}, client)

	got := a.Chat(context.Background(), "use the tool")
	if got != "Done, echoed it." {
		t.Errorf("reply = %q, want the unwrapped content", got)
	}
	if strings.Contains(got, `"action"`) {
		t.Errorf("raw JSON leaked to the user: %q", got)
	}
}

func TestChat_FollowupEmptyFallback(t *testing.T) {
	client := &scriptedClient{responses: []string{""}}
	a := newOnlineAgent(t, &scriptedPlanner{
		act: action.ToolCall("echo_tool", map[string]any{"text": "x"}),
	}, client)

	got := a.Chat(context.Background(), "use the tool")
	if got != prompts.ToolNoAnswerFallback {
		t.Errorf("reply = %q, want the tool-no-answer fallback", got)
	}
}

func TestChat_BackendFailureNeverLeaksJSON(t *testing.T) {
	client := &scriptedClient{err: errors.New("dial tcp: connection refused")}
	a := New(Config{
		Planner:  planner.NewModelPlanner(llm.NewAdapter(client, nil), nil),
		Registry: testRegistry(t),
		Adapter:  llm.NewAdapter(client, nil),
		Log:      transcript.New("system", "[compacted]"),
	})

	got := a.Chat(context.Background(), "hello")
	if !strings.Contains(got, prompts.BackendApology) {
		t.Errorf("reply should carry the apology, got %q", got)
	}
	if strings.Contains(got, `"action"`) {
		t.Errorf("raw action JSON leaked to the user: %q", got)
	}
}

func TestChat_TranscriptGainsTwoTurns(t *testing.T) {
	a := newOfflineAgent(t, &scriptedPlanner{act: action.Respond("ok")})

	a.Chat(context.Background(), "first")
	turns := a.Transcript().Turns()
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Role != transcript.RoleUser || turns[0].Text != "first" {
		t.Errorf("turn 0 = %+v, want the user message", turns[0])
	}
	if turns[1].Role != transcript.RoleAssistant || turns[1].Text != "ok" {
		t.Errorf("turn 1 = %+v, want the reply", turns[1])
	}
}
