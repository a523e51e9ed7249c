package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/jmalhotra/valet/internal/action"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/transcript"
)

func newTestLog() *transcript.Log {
	return transcript.New("system", "[compacted]")
}

func TestRulePlanner_Triggers(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantTool string
	}{
		{"check reminders phrase", "can you check reminders for me", "check_reminders"},
		{"any reminders phrase", "do I have any reminders?", "check_reminders"},
		{"show my reminders phrase", "show my reminders please", "check_reminders"},
		{"remember", "remember that I parked on level 3", "remember_info"},
		{"recall", "recall my notes", "recall_memory"},
		{"memory keyword", "what's in your memory?", "recall_memory"},
		{"search", "search for the capital of France", "web_search"},
		{"news", "what's in the news today", "web_search"},
		{"remind", "remind me to stretch", "set_reminder"},
		{"case insensitive", "REMEMBER THIS", "remember_info"},
	}

	p := NewRulePlanner(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(context.Background(), newTestLog(), tt.message)
			if got.Kind != action.KindTool {
				t.Fatalf("Decide(%q) kind = %q, want tool", tt.message, got.Kind)
			}
			if got.Name != tt.wantTool {
				t.Errorf("Decide(%q) tool = %q, want %q", tt.message, got.Name, tt.wantTool)
			}
		})
	}
}

// The word "reminder" appears in both the check triggers and the set
// trigger; the check phrases must win when present and set_reminder
// must win otherwise.
func TestRulePlanner_ReminderTieBreak(t *testing.T) {
	p := NewRulePlanner(nil)

	got := p.Decide(context.Background(), newTestLog(), "set a reminder for my meeting")
	if got.Name != "set_reminder" {
		t.Errorf("bare 'reminder' should set, got tool %q", got.Name)
	}

	got = p.Decide(context.Background(), newTestLog(), "any reminders I should know about?")
	if got.Name != "check_reminders" {
		t.Errorf("check phrasing should win over set, got tool %q", got.Name)
	}
}

func TestRulePlanner_RememberStripsPrefix(t *testing.T) {
	p := NewRulePlanner(nil)

	got := p.Decide(context.Background(), newTestLog(), "Please remember that my wifi password is hunter2")
	if got.Name != "remember_info" {
		t.Fatalf("tool = %q, want remember_info", got.Name)
	}
	note, _ := got.Args["note"].(string)
	if strings.Contains(note, "remember that") {
		t.Errorf("note should have the trigger phrase stripped, got %q", note)
	}
	if !strings.Contains(note, "hunter2") {
		t.Errorf("note lost its content: %q", note)
	}
}

func TestRulePlanner_SetReminderDefaults(t *testing.T) {
	p := NewRulePlanner(nil)

	got := p.Decide(context.Background(), newTestLog(), "remind me to water the plants")
	if got.Name != "set_reminder" {
		t.Fatalf("tool = %q, want set_reminder", got.Name)
	}
	if got.Args["minutes_from_now"] != DefaultReminderMinutes {
		t.Errorf("minutes_from_now = %v, want %d", got.Args["minutes_from_now"], DefaultReminderMinutes)
	}
	if got.Args["message"] != "remind me to water the plants" {
		t.Errorf("message = %v, want the full user message", got.Args["message"])
	}
}

func TestRulePlanner_DefaultEcho(t *testing.T) {
	p := NewRulePlanner(nil)

	got := p.Decide(context.Background(), newTestLog(), "how tall is Mount Everest?")
	if got.Kind != action.KindRespond {
		t.Fatalf("kind = %q, want respond", got.Kind)
	}
	if !strings.HasPrefix(got.Content, prompts.OfflineEchoPrefix) {
		t.Errorf("echo reply missing prefix: %q", got.Content)
	}
	if !strings.Contains(got.Content, "Mount Everest") {
		t.Errorf("echo reply lost the message: %q", got.Content)
	}
}
