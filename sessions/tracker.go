package sessions

import "log"

// PendingToolCall tracks one in-flight tool invocation. Arguments accumulate
// from streamed fragments in arrival order; the record is discarded once a
// terminal step event resolves the call, while its bubble stays in the
// transcript.
type PendingToolCall struct {
	CallID       string
	FunctionName string
	Arguments    string
	Status       string
}

// Display titles for known tools; anything else gets a generic wrench.
var toolTitles = map[string]string{
	"get_clients_for_today":    "📅 Today's Clients",
	"plan_optimal_route":       "🧭 Planning Route",
	"get_next_visit":           "➡️ Next Visit",
	"get_current_visit_status": "📍 Visit Status",
	"generate_location_map":    "🗺️ Generating Map",
	"reset_sales_day":          "🔄 Resetting Day",
	"bing_grounding":           "🔎 Searching Web Sources",
}

var statusIcons = map[string]string{
	StatusPending: "⏳",
	StatusDone:    "✅",
	StatusError:   "❌",
}

// ToolTracker tracks in-flight tool calls by call id and renders one
// collapsible status bubble per call in the transcript.
type ToolTracker struct {
	transcript *Transcript
	pending    map[string]*PendingToolCall
	logger     *log.Logger
}

func NewToolTracker(transcript *Transcript, logger *log.Logger) *ToolTracker {
	return &ToolTracker{
		transcript: transcript,
		pending:    make(map[string]*PendingToolCall),
		logger:     logger,
	}
}

// OnCallStarted registers a new pending call and creates its placeholder
// bubble. Idempotent: a call id that is already tracked is left untouched.
func (tr *ToolTracker) OnCallStarted(callID, functionName string) {
	if _, ok := tr.pending[callID]; ok {
		return
	}
	tr.logger.Printf("Tool call started: %s (ID: %s)", functionName, callID)
	tr.pending[callID] = &PendingToolCall{
		CallID:       callID,
		FunctionName: functionName,
		Status:       StatusPending,
	}
	tr.transcript.UpsertToolBubble(bubbleID(callID), bubbleTitle(functionName, StatusPending), "...", StatusPending)
}

// OnArgumentsFragment appends a streamed argument fragment to the call's
// buffer. Fragments for unknown call ids are dropped: argument text is
// display-only here and never drives control flow.
func (tr *ToolTracker) OnArgumentsFragment(callID, fragment string) {
	call, ok := tr.pending[callID]
	if !ok {
		return
	}
	call.Arguments += fragment
}

// FunctionName reports the tracked function name for a call id.
func (tr *ToolTracker) FunctionName(callID string) (string, bool) {
	if call, ok := tr.pending[callID]; ok {
		return call.FunctionName, true
	}
	return "", false
}

// OnCallFinished resolves the call's bubble with the formatted summary and
// terminal status, then discards the tracking record. The bubble entry
// persists in the transcript.
func (tr *ToolTracker) OnCallFinished(callID, functionName, summary, status string) {
	tr.transcript.UpsertToolBubble(bubbleID(callID), bubbleTitle(functionName, status), summary, status)
	delete(tr.pending, callID)
}

// InFlight returns the number of calls currently tracked.
func (tr *ToolTracker) InFlight() int {
	return len(tr.pending)
}

// Reset discards all tracking records.
func (tr *ToolTracker) Reset() {
	tr.pending = make(map[string]*PendingToolCall)
}

func bubbleID(callID string) string {
	if callID == "" {
		return "tool-noid"
	}
	return "tool-" + callID
}

func bubbleTitle(functionName, status string) string {
	prefix, ok := toolTitles[functionName]
	if !ok {
		prefix = "🛠️ " + functionName
	}
	if icon := statusIcons[status]; icon != "" {
		return icon + " " + prefix
	}
	return prefix
}
