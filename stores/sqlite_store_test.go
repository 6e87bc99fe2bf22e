package stores

import (
	"testing"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStoreSimple(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndFetchHistory(t *testing.T) {
	store := newMemoryStore(t)

	entries := []struct {
		role, kind, content string
		metadata            map[string]string
	}{
		{"user", "user_message", "plan my day", nil},
		{"tool", "tool_bubble", "4 clients today", map[string]string{"id": "tool-call_1", "title": "✅ 📅 Today's Clients", "status": "done"}},
		{"assistant", "assistant_message", "Here is your day.", nil},
	}
	for _, e := range entries {
		if err := store.SaveEntry("sess-1", e.role, e.kind, e.content, e.metadata); err != nil {
			t.Fatalf("save %s: %v", e.kind, err)
		}
	}

	history, err := store.FetchHistory("sess-1", 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length: %d", len(history))
	}
	for i, msg := range history {
		if msg.Sequence != i+1 {
			t.Errorf("sequence at %d: %d", i, msg.Sequence)
		}
	}
	if history[1].BubbleID != "tool-call_1" {
		t.Errorf("bubble id: %q", history[1].BubbleID)
	}
	if history[1].MetadataJSON == "" {
		t.Errorf("metadata not persisted")
	}
}

func TestFetchHistoryLimitReturnsMostRecent(t *testing.T) {
	store := newMemoryStore(t)

	for _, content := range []string{"one", "two", "three", "four"} {
		if err := store.SaveEntry("sess-1", "user", "user_message", content, nil); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	history, err := store.FetchHistory("sess-1", 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length: %d", len(history))
	}
	if history[0].Content != "three" || history[1].Content != "four" {
		t.Errorf("expected most recent entries, got %q, %q", history[0].Content, history[1].Content)
	}
}

func TestSessionsIsolated(t *testing.T) {
	store := newMemoryStore(t)

	if err := store.SaveEntry("sess-a", "user", "user_message", "from a", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveEntry("sess-b", "user", "user_message", "from b", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	history, err := store.FetchHistory("sess-a", 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(history) != 1 || history[0].Content != "from a" {
		t.Errorf("cross-session leak: %+v", history)
	}

	sessions, err := store.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions: %d", len(sessions))
	}
}

func TestTraceStoreRoundTrip(t *testing.T) {
	store := newMemoryStore(t)

	traces, err := NewGORMTraceStore(store.DB())
	if err != nil {
		t.Fatalf("open trace store: %v", err)
	}

	traces.Record("sess-1", map[string]interface{}{"run_id": "run_1", "run_status": "completed"})
	traces.Record("sess-1", map[string]interface{}{"step_s1_type": "tool_calls"})
	traces.Record("sess-2", map[string]interface{}{"run_id": "run_9"})

	got, err := traces.GetTracesBySession("sess-1")
	if err != nil {
		t.Fatalf("get traces: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("traces: %d", len(got))
	}
	var sawStatus bool
	for _, trace := range got {
		if trace.Attrs["run_status"] == "completed" {
			sawStatus = true
		}
	}
	if !sawStatus {
		t.Errorf("attrs not restored: %+v", got)
	}

	if err := traces.DeleteTracesBySession("sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = traces.GetTracesBySession("sess-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("traces not deleted: %d", len(got))
	}

	other, err := traces.GetTracesBySession("sess-2")
	if err != nil || len(other) != 1 {
		t.Errorf("other session affected: %v %d", err, len(other))
	}
}

func TestStoreFactory(t *testing.T) {
	store, err := NewStore(NewStoreConfig("sqlite", ":memory:"))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	defer store.Close()

	if err := store.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}

	if _, err := NewStore(NewStoreConfig("mongodb", "")); err == nil {
		t.Errorf("expected error for unsupported store type")
	}
}
