package sessions

import (
	"fmt"
	"log"

	"github.com/salespilot/salespilot/models"
)

// fallback when a step completion arrives for a call the tracker never saw
// (its delta events were dropped or reordered).
const unknownFunction = "unknown_function"

// Reducer applies one ordered run-event sequence to the transcript and tool
// tracker. It is a pure dispatcher: no state of its own beyond references to
// the structures it mutates, so one reducer serves a session for its whole
// lifetime.
type Reducer struct {
	sessionID  string
	transcript *Transcript
	tracker    *ToolTracker
	traces     TraceSink
	logger     *log.Logger
}

func NewReducer(sessionID string, transcript *Transcript, tracker *ToolTracker, traces TraceSink, logger *log.Logger) *Reducer {
	if traces == nil {
		traces = NopTraceSink{}
	}
	return &Reducer{
		sessionID:  sessionID,
		transcript: transcript,
		tracker:    tracker,
		traces:     traces,
		logger:     logger,
	}
}

// Apply mutates the transcript and tracker according to one event. A non-nil
// error marks the event as malformed; the caller is expected to skip it and
// continue with the rest of the stream.
func (r *Reducer) Apply(ev models.StreamEvent) error {
	switch ev.Kind {
	case models.EventMessageDelta:
		if ev.MessageDelta == nil {
			return fmt.Errorf("message delta event without payload")
		}
		r.applyMessageDelta(ev.MessageDelta)
	case models.EventMessageCompleted:
		if ev.Message == nil {
			return fmt.Errorf("message completed event without payload")
		}
		r.applyMessageCompleted(ev.Message)
	case models.EventToolCallDelta:
		if ev.StepDelta == nil {
			return fmt.Errorf("tool call delta event without payload")
		}
		r.applyStepDelta(ev.StepDelta)
	case models.EventRunStep:
		if ev.Step == nil {
			return fmt.Errorf("run step event without payload")
		}
		r.applyRunStep(ev.Step)
	case models.EventRunStatus:
		if ev.Run == nil {
			return fmt.Errorf("run status event without payload")
		}
		r.applyRunStatus(ev.Run)
	default:
		return fmt.Errorf("unrecognized event kind: %q", ev.Kind)
	}
	return nil
}

func (r *Reducer) applyMessageDelta(delta *models.MessageDeltaChunk) {
	r.transcript.StartAssistantMessage(delta.ID)
	if text := delta.Text(); text != "" {
		r.transcript.AppendMessageText(delta.ID, text)
	}
}

func (r *Reducer) applyMessageCompleted(msg *models.ThreadMessage) {
	if msg.Role != "" && msg.Role != RoleAssistant {
		return
	}
	r.transcript.CompleteMessage(msg.ID, msg.Text())
}

func (r *Reducer) applyStepDelta(delta *models.RunStepDeltaChunk) {
	details := delta.Delta.StepDetails
	if details == nil || details.Type != models.StepTypeToolCalls {
		return
	}
	for _, call := range details.ToolCalls {
		if call.ID == "" {
			continue
		}
		if call.Type == "function" && call.Function != nil {
			if call.Function.Name != "" {
				r.tracker.OnCallStarted(call.ID, call.Function.Name)
			}
			if call.Function.Arguments != "" {
				r.tracker.OnArgumentsFragment(call.ID, call.Function.Arguments)
			}
		}
	}
}

func (r *Reducer) applyRunStep(step *models.RunStep) {
	r.traces.Record(r.sessionID, map[string]interface{}{
		fmt.Sprintf("step_%s_type", step.ID):   step.Type,
		fmt.Sprintf("step_%s_status", step.ID): step.Status,
	})

	if step.Type != models.StepTypeToolCalls || step.StepDetails == nil {
		return
	}

	for _, call := range step.StepDetails.ToolCalls {
		funcName, tracked := r.tracker.FunctionName(call.ID)
		if !tracked {
			funcName = unknownFunction
		}

		switch step.Status {
		case models.StepStatusCompleted:
			summary := r.completedCallSummary(funcName, call)
			r.tracker.OnCallFinished(call.ID, funcName, summary, StatusDone)

		case models.StepStatusFailed:
			errMsg := fmt.Sprintf("Tool call failed: %s (ID: %s)", funcName, call.ID)
			if step.LastError != nil {
				errMsg += " - Error: " + step.LastError.Message
			}
			r.logger.Printf("%s", errMsg)
			r.traces.Record(r.sessionID, map[string]interface{}{
				fmt.Sprintf("step_%s_error", step.ID): errMsg,
			})
			r.tracker.OnCallFinished(call.ID, funcName, errMsg, StatusError)
		}
	}
}

func (r *Reducer) completedCallSummary(funcName string, call models.ToolCall) string {
	switch {
	case call.Type == "function" && call.Function != nil && call.Function.Output != nil:
		return FormatToolOutput(funcName, *call.Function.Output)
	case call.Type == "bing_grounding":
		return "Finished searching web sources."
	default:
		return "Tool call finished."
	}
}

func (r *Reducer) applyRunStatus(run *models.ThreadRun) {
	r.logger.Printf("run status > %s (ID: %s)", run.Status, run.ID)

	attrs := map[string]interface{}{
		"run_id":     run.ID,
		"run_status": run.Status,
	}
	if run.Status == models.RunStatusFailed && run.LastError != nil {
		attrs["error_code"] = run.LastError.Code
		attrs["error"] = run.LastError.Message
	}
	r.traces.Record(r.sessionID, attrs)
}
