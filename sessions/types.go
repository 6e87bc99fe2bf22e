package sessions

import (
	"context"

	"github.com/salespilot/salespilot/models"
)

// Entry roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool bubble statuses.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusError   = "error"
)

// Metadata keys recognized by the UI renderer.
const (
	MetaID     = "id"
	MetaTitle  = "title"
	MetaStatus = "status"
)

// ChatEntry is one transcript entry. Content is mutated in place as deltas
// arrive; Metadata identifies tool bubbles across re-renders.
type ChatEntry struct {
	Role     string            `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (e *ChatEntry) clone() ChatEntry {
	out := ChatEntry{Role: e.Role, Content: e.Content}
	if e.Metadata != nil {
		out.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// BubbleID returns the entry's stable bubble identifier, if any.
func (e *ChatEntry) BubbleID() string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[MetaID]
}

// Snapshot is a render-ready copy of the transcript. Entries are value copies
// with cloned metadata, safe to hand to a renderer while the transcript keeps
// mutating.
type Snapshot []ChatEntry

// AgentError represents errors that can occur during session operations.
type AgentError struct {
	Message string
	Fatal   bool
}

func (e *AgentError) Error() string {
	return e.Message
}

// TraceSink receives named observability attributes keyed to a session's
// current unit of work. Implementations must tolerate being called from the
// session goroutine; absence of a sink must not alter behavior.
type TraceSink interface {
	Record(sessionID string, attrs map[string]interface{})
}

// NopTraceSink discards all attributes.
type NopTraceSink struct{}

func (NopTraceSink) Record(string, map[string]interface{}) {}

// RunService is the remote conversational run service the session controller
// drives: message delivery to a thread plus an ordered event stream for one
// run. The stream must be released when ctx is cancelled; the error channel
// reports stream-level failures and is closed when the stream ends.
type RunService interface {
	CreateThread(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, threadID, text string) error
	StreamRun(ctx context.Context, threadID, agentID string) (<-chan models.StreamEvent, <-chan error)
}
