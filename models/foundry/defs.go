package foundry

import (
	"github.com/salespilot/salespilot/models"
)

// SSE event names emitted by the agent run stream.
const (
	eventThreadMessageDelta     = "thread.message.delta"
	eventThreadMessageCompleted = "thread.message.completed"
	eventThreadRunStepDelta     = "thread.run.step.delta"
	eventThreadRunStepPrefix    = "thread.run.step"
	eventThreadRunPrefix        = "thread.run"
	eventDone                   = "done"
)

// toolDef wraps a function declaration in the agent service's tool envelope
type toolDef struct {
	Type     string                     `json:"type"`
	Function *models.FunctionDeclaration `json:"function,omitempty"`
}

// agentObject is the agent service's representation of a configured assistant
type agentObject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
}

type listAgentsResponse struct {
	Data []agentObject `json:"data"`
}

type createAgentRequest struct {
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	Instructions string    `json:"instructions"`
	Tools        []toolDef `json:"tools,omitempty"`
}

type threadObject struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createRunRequest struct {
	AssistantID string `json:"assistant_id"`
	Stream      bool   `json:"stream"`
}

type toolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

type submitToolOutputsRequest struct {
	ToolOutputs []toolOutput `json:"tool_outputs"`
	Stream      bool         `json:"stream"`
}

type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
