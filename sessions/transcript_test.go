package sessions

import (
	"testing"
)

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()
	tr.Append(ChatEntry{Role: RoleUser, Content: "first"})
	tr.Append(ChatEntry{Role: RoleAssistant, Content: "second"})
	tr.Append(ChatEntry{Role: RoleUser, Content: "third"})

	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	for i, want := range []string{"first", "second", "third"} {
		if snap[i].Content != want {
			t.Errorf("entry %d: got %q, want %q", i, snap[i].Content, want)
		}
	}
}

func TestStartAssistantMessageIdempotent(t *testing.T) {
	tr := NewTranscript()
	tr.StartAssistantMessage("msg_1")
	tr.StartAssistantMessage("msg_1")

	if tr.Len() != 1 {
		t.Fatalf("expected 1 entry after duplicate start, got %d", tr.Len())
	}
}

func TestAppendMessageTextAccumulates(t *testing.T) {
	tr := NewTranscript()
	tr.StartAssistantMessage("msg_1")
	tr.AppendMessageText("msg_1", "Hel")
	tr.AppendMessageText("msg_1", "lo")

	snap := tr.Snapshot()
	if snap[0].Content != "Hello" {
		t.Errorf("got %q, want %q", snap[0].Content, "Hello")
	}
}

func TestAppendMessageTextUnknownIDDropped(t *testing.T) {
	tr := NewTranscript()
	tr.AppendMessageText("never_started", "lost")

	if tr.Len() != 0 {
		t.Errorf("expected no entries, got %d", tr.Len())
	}
}

func TestCompleteMessageReplacesAccumulatedText(t *testing.T) {
	tr := NewTranscript()
	tr.StartAssistantMessage("msg_1")
	tr.AppendMessageText("msg_1", "Hel")
	tr.CompleteMessage("msg_1", "Hello there")

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap))
	}
	if snap[0].Content != "Hello there" {
		t.Errorf("got %q, want final text", snap[0].Content)
	}
}

func TestCompleteMessageUnknownID(t *testing.T) {
	tr := NewTranscript()

	// Empty final text for an unknown id is a no-op.
	tr.CompleteMessage("msg_x", "")
	if tr.Len() != 0 {
		t.Fatalf("expected no entry for empty unknown completion, got %d", tr.Len())
	}

	// Non-empty final text appends a fresh assistant entry.
	tr.CompleteMessage("msg_y", "surprise")
	snap := tr.Snapshot()
	if len(snap) != 1 || snap[0].Content != "surprise" || snap[0].Role != RoleAssistant {
		t.Errorf("unexpected entry: %+v", snap)
	}
}

func TestUpsertToolBubbleCreateThenUpdate(t *testing.T) {
	tr := NewTranscript()
	tr.UpsertToolBubble("tool-call_1", "⏳ Planning Route", "...", StatusPending)
	tr.Append(ChatEntry{Role: RoleAssistant, Content: "working on it"})
	tr.UpsertToolBubble("tool-call_1", "✅ Planning Route", "Route ready", StatusDone)

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected update in place, got %d entries", len(snap))
	}
	bubble := snap[0]
	if bubble.Content != "Route ready" {
		t.Errorf("content not updated: %q", bubble.Content)
	}
	if bubble.Metadata[MetaStatus] != StatusDone {
		t.Errorf("status not updated: %q", bubble.Metadata[MetaStatus])
	}
	if bubble.Metadata[MetaTitle] != "✅ Planning Route" {
		t.Errorf("title not updated: %q", bubble.Metadata[MetaTitle])
	}
}

func TestUpsertToolBubbleMostRecentWins(t *testing.T) {
	tr := NewTranscript()
	tr.Append(ChatEntry{Role: RoleTool, Content: "old", Metadata: map[string]string{MetaID: "tool-dup"}})
	tr.Append(ChatEntry{Role: RoleTool, Content: "new", Metadata: map[string]string{MetaID: "tool-dup"}})

	tr.UpsertToolBubble("tool-dup", "title", "updated", StatusDone)

	snap := tr.Snapshot()
	if snap[0].Content != "old" {
		t.Errorf("older duplicate was touched: %q", snap[0].Content)
	}
	if snap[1].Content != "updated" {
		t.Errorf("most recent duplicate not updated: %q", snap[1].Content)
	}
}

func TestSnapshotIsolatedFromLaterMutation(t *testing.T) {
	tr := NewTranscript()
	tr.StartAssistantMessage("msg_1")
	tr.AppendMessageText("msg_1", "partial")
	tr.UpsertToolBubble("tool-a", "title", "...", StatusPending)

	snap := tr.Snapshot()

	tr.AppendMessageText("msg_1", " more")
	tr.UpsertToolBubble("tool-a", "title", "done", StatusDone)

	if snap[0].Content != "partial" {
		t.Errorf("snapshot text mutated: %q", snap[0].Content)
	}
	if snap[1].Content != "..." || snap[1].Metadata[MetaStatus] != StatusPending {
		t.Errorf("snapshot bubble mutated: %+v", snap[1])
	}
}

func TestEntriesSince(t *testing.T) {
	tr := NewTranscript()
	tr.Append(ChatEntry{Role: RoleUser, Content: "before"})
	mark := tr.Len()
	tr.Append(ChatEntry{Role: RoleAssistant, Content: "after"})

	got := tr.EntriesSince(mark)
	if len(got) != 1 || got[0].Content != "after" {
		t.Errorf("unexpected entries: %+v", got)
	}
	if tail := tr.EntriesSince(tr.Len() + 5); tail != nil {
		t.Errorf("out-of-range start should return nil, got %+v", tail)
	}
}

func TestTranscriptReset(t *testing.T) {
	tr := NewTranscript()
	tr.StartAssistantMessage("msg_1")
	tr.AppendMessageText("msg_1", "text")
	tr.Reset()

	if tr.Len() != 0 {
		t.Fatalf("expected empty transcript after reset, got %d", tr.Len())
	}

	// The old message id association must not leak into the new epoch.
	tr.AppendMessageText("msg_1", "ghost")
	if tr.Len() != 0 {
		t.Errorf("stale message id resurrected an entry")
	}
}
