package models

// EventKind identifies the type of a streamed run event.
type EventKind string

const (
	EventMessageDelta     EventKind = "message_delta"
	EventMessageCompleted EventKind = "message_completed"
	EventToolCallDelta    EventKind = "tool_call_delta"
	EventRunStep          EventKind = "run_step"
	EventRunStatus        EventKind = "run_status"
)

// Run statuses reported by the remote service. Only Failed and Completed get
// special local handling; the rest are observed and logged.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCompleted      = "completed"
	RunStatusFailed         = "failed"
	RunStatusCancelled      = "cancelled"
)

// Step statuses and detail types.
const (
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
	StepTypeToolCalls   = "tool_calls"
)

// StreamEvent is one event from a remote run's event stream. Exactly one of
// the payload pointers is set, matching Kind.
type StreamEvent struct {
	Kind         EventKind          `json:"kind"`
	MessageDelta *MessageDeltaChunk `json:"message_delta,omitempty"`
	Message      *ThreadMessage     `json:"message,omitempty"`
	StepDelta    *RunStepDeltaChunk `json:"step_delta,omitempty"`
	Step         *RunStep           `json:"step,omitempty"`
	Run          *ThreadRun         `json:"run,omitempty"`
}

// TextValue holds a text fragment or a completed text block.
type TextValue struct {
	Value string `json:"value"`
}

// MessageContent is one content part of a message or message delta.
type MessageContent struct {
	Type string     `json:"type,omitempty"`
	Text *TextValue `json:"text,omitempty"`
}

// MessageDelta carries the incremental content of a message delta chunk.
type MessageDelta struct {
	Content []MessageContent `json:"content,omitempty"`
}

// MessageDeltaChunk is an incremental fragment of one assistant message.
type MessageDeltaChunk struct {
	ID    string       `json:"id"`
	Delta MessageDelta `json:"delta"`
}

// Text concatenates the text fragments carried by the delta.
func (c *MessageDeltaChunk) Text() string {
	var out string
	for _, part := range c.Delta.Content {
		if part.Text != nil {
			out += part.Text.Value
		}
	}
	return out
}

// ThreadMessage is a message in its completed form.
type ThreadMessage struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Status  string           `json:"status,omitempty"`
	Content []MessageContent `json:"content,omitempty"`
}

// Text concatenates the message's final text content.
func (m *ThreadMessage) Text() string {
	var out string
	for _, part := range m.Content {
		if part.Text != nil {
			out += part.Text.Value
		}
	}
	return out
}

// FunctionSpec describes a function invocation inside a tool call. Arguments
// arrive as streamed JSON fragments; Output is set on completed steps.
type FunctionSpec struct {
	Name      string  `json:"name,omitempty"`
	Arguments string  `json:"arguments,omitempty"`
	Output    *string `json:"output,omitempty"`
}

// ToolCall is one tool invocation reported in a step or step delta.
type ToolCall struct {
	Index    int           `json:"index,omitempty"`
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Function *FunctionSpec `json:"function,omitempty"`
}

// StepDetails carries the tool calls of a tool_calls step.
type StepDetails struct {
	Type      string     `json:"type,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// RunStepDelta is the incremental portion of a step delta chunk.
type RunStepDelta struct {
	StepDetails *StepDetails `json:"step_details,omitempty"`
}

// RunStepDeltaChunk is an incremental update to one run step, typically
// carrying new tool calls or argument fragments.
type RunStepDeltaChunk struct {
	ID    string       `json:"id"`
	Delta RunStepDelta `json:"delta"`
}

// RunStep is a step of a run in its snapshot form (created/completed/failed).
type RunStep struct {
	ID          string       `json:"id"`
	RunID       string       `json:"run_id,omitempty"`
	Type        string       `json:"type,omitempty"`
	Status      string       `json:"status,omitempty"`
	StepDetails *StepDetails `json:"step_details,omitempty"`
	LastError   *RunError    `json:"last_error,omitempty"`
}

// RunError is the structured error attached to a failed run or step.
type RunError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmitToolOutputsAction lists the tool calls the service is waiting on.
type SubmitToolOutputsAction struct {
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// RequiredAction is set on a run when the service needs local tool outputs
// before it can continue.
type RequiredAction struct {
	Type              string                   `json:"type,omitempty"`
	SubmitToolOutputs *SubmitToolOutputsAction `json:"submit_tool_outputs,omitempty"`
}

// ThreadRun is a run status snapshot.
type ThreadRun struct {
	ID             string          `json:"id"`
	ThreadID       string          `json:"thread_id,omitempty"`
	Status         string          `json:"status"`
	LastError      *RunError       `json:"last_error,omitempty"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
}
