package transcript

import (
	"strings"
	"testing"
)

const (
	testSystem = "You are a test assistant."
	testNotice = "[Older turns compacted.]"
)

func TestRender_SystemPrefix(t *testing.T) {
	log := New(testSystem, testNotice)
	log.Append(RoleUser, "hello")
	log.Append(RoleAssistant, "hi there")

	got := log.Render()
	if !strings.HasPrefix(got, testSystem+"\n\n") {
		t.Errorf("rendering should start with the system instruction, got %q", got[:min(len(got), 60)])
	}
	if !strings.Contains(got, "User: hello\n") {
		t.Errorf("rendering missing user turn: %q", got)
	}
	if !strings.Contains(got, "Assistant: hi there\n") {
		t.Errorf("rendering missing assistant turn: %q", got)
	}
}

func TestRender_NoNoticeBeforeCompaction(t *testing.T) {
	log := New(testSystem, testNotice)
	log.Append(RoleUser, "short")

	if strings.Contains(log.Render(), testNotice) {
		t.Error("compaction notice should not appear before any compaction")
	}
}

func TestCompact_BoundsRendering(t *testing.T) {
	log := New(testSystem, testNotice, WithMaxChars(500), WithKeepTail(200))

	filler := strings.Repeat("x", 120)
	for i := 0; i < 20; i++ {
		log.Append(RoleUser, filler)
		log.Append(RoleAssistant, filler)
	}

	got := log.Render()

	// After compaction the rendering is system + notice + tail plus at
	// most one turn appended since; it must stay well under the raw
	// accumulated size.
	bound := len(testSystem) + len(testNotice) + 200 + 2*len(filler) + 64
	if len(got) > bound {
		t.Errorf("rendering length = %d, want <= %d", len(got), bound)
	}
	if !strings.HasPrefix(got, testSystem+"\n\n") {
		t.Error("system instruction must survive compaction")
	}
	if !strings.Contains(got, testNotice) {
		t.Error("compaction notice missing after compaction")
	}
}

func TestCompact_Repeated(t *testing.T) {
	log := New(testSystem, testNotice, WithMaxChars(400), WithKeepTail(150))

	for i := 0; i < 100; i++ {
		log.Append(RoleUser, strings.Repeat("y", 90))
	}

	got := log.Render()
	if !strings.HasPrefix(got, testSystem+"\n\n") {
		t.Error("system instruction must survive repeated compaction")
	}
	if n := strings.Count(got, testNotice); n != 1 {
		t.Errorf("compaction notice appears %d times, want 1", n)
	}
}

func TestCompact_NoopUnderBudget(t *testing.T) {
	log := New(testSystem, testNotice)
	log.Append(RoleUser, "one")
	log.Append(RoleAssistant, "two")

	before := log.Render()
	log.Compact()
	after := log.Render()

	if before != after {
		t.Error("compaction below budget should not change the rendering")
	}
	if len(log.Turns()) != 2 {
		t.Errorf("turns = %d, want 2", len(log.Turns()))
	}
}

func TestAppend_CompactsNewestTurn(t *testing.T) {
	log := New(testSystem, testNotice, WithMaxChars(300), WithKeepTail(100))

	log.Append(RoleUser, strings.Repeat("z", 400))

	// The oversized turn itself triggered compaction: the turn list is
	// empty and its text survives only in the kept tail.
	if len(log.Turns()) != 0 {
		t.Errorf("turns = %d, want 0 after compaction", len(log.Turns()))
	}
	if !strings.Contains(log.Render(), "zzz") {
		t.Error("kept tail should retain the end of the oversized turn")
	}
}

func TestTurns_ReturnsCopy(t *testing.T) {
	log := New(testSystem, testNotice)
	log.Append(RoleUser, "original")

	turns := log.Turns()
	turns[0].Text = "mutated"

	if log.Turns()[0].Text != "original" {
		t.Error("mutating the returned slice should not affect the log")
	}
}
