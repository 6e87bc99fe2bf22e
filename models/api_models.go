package models

import "time"

// ChatEntryResponse is one transcript entry as returned by the chat API and
// streamed to the browser widget. Metadata carries the tool-bubble keys the
// UI reconciles on ("id", "title", "status").
type ChatEntryResponse struct {
	Role     string            `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ChatHistoryMessage is one persisted message as returned by the history API.
type ChatHistoryMessage struct {
	ID        uint              `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	SessionID string            `json:"session_id"`
	Sequence  int               `json:"sequence"`
	Role      string            `json:"role"` // "user", "assistant", "tool"
	Kind      string            `json:"kind"` // "user_message", "assistant_message", "tool_bubble"
	Content   string            `json:"content,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
