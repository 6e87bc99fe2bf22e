package foundry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/salespilot/salespilot/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}
}

const defaultAPIVersion = "2024-12-01-preview"

// ToolExecutor resolves a required tool call to its output. The agent
// registry implements this.
type ToolExecutor interface {
	ExecuteTool(name, argsJSON string) (string, error)
}

// Client talks to an Azure AI Foundry agent service over its REST and SSE
// surfaces. It creates threads, posts user messages, and streams runs,
// resolving requires_action pauses with the configured executor.
type Client struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	HTTPClient *http.Client
	Executor   ToolExecutor
	Logger     *log.Logger
}

// NewClient builds a client from explicit settings, falling back to the
// FOUNDRY_ENDPOINT and FOUNDRY_API_KEY environment variables.
func NewClient(endpoint, apiKey string, executor ToolExecutor) *Client {
	if endpoint == "" {
		endpoint = os.Getenv("FOUNDRY_ENDPOINT")
	}
	if apiKey == "" {
		apiKey = os.Getenv("FOUNDRY_API_KEY")
	}
	return &Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		APIVersion: defaultAPIVersion,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
		Executor:   executor,
		Logger:     log.New(os.Stdout, "[foundry] ", log.LstdFlags),
	}
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s%s?api-version=%s", c.Endpoint, path, c.APIVersion)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("api-key", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp apiErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("agent service error: %s (code: %s)", errResp.Error.Message, errResp.Error.Code)
		}
		return fmt.Errorf("agent service error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// EnsureAgent finds an agent by name and updates it in place, or creates it
// when no agent with that name exists. Returns the agent ID.
func (c *Client) EnsureAgent(ctx context.Context, name, model, instructions string, tools []models.FunctionDeclaration) (string, error) {
	defs := make([]toolDef, 0, len(tools))
	for i := range tools {
		defs = append(defs, toolDef{Type: "function", Function: &tools[i]})
	}
	reqBody := createAgentRequest{
		Name:         name,
		Model:        model,
		Instructions: instructions,
		Tools:        defs,
	}

	var existing listAgentsResponse
	if err := c.doJSON(ctx, "GET", "/assistants", nil, &existing); err != nil {
		return "", fmt.Errorf("failed to list agents: %w", err)
	}
	for _, agent := range existing.Data {
		if agent.Name == name {
			var updated agentObject
			if err := c.doJSON(ctx, "POST", "/assistants/"+agent.ID, reqBody, &updated); err != nil {
				return "", fmt.Errorf("failed to update agent %s: %w", agent.ID, err)
			}
			c.Logger.Printf("Updated agent %s (%s)", name, updated.ID)
			return updated.ID, nil
		}
	}

	var created agentObject
	if err := c.doJSON(ctx, "POST", "/assistants", reqBody, &created); err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}
	c.Logger.Printf("Created agent %s (%s)", name, created.ID)
	return created.ID, nil
}

// CreateThread starts a new conversation thread and returns its ID.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var thread threadObject
	if err := c.doJSON(ctx, "POST", "/threads", struct{}{}, &thread); err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	return thread.ID, nil
}

// SendMessage appends a user message to a thread.
func (c *Client) SendMessage(ctx context.Context, threadID, text string) error {
	body := createMessageRequest{Role: "user", Content: text}
	if err := c.doJSON(ctx, "POST", "/threads/"+threadID+"/messages", body, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// pendingAction carries the tool calls a paused run is waiting on.
type pendingAction struct {
	runID     string
	toolCalls []models.ToolCall
}

// StreamRun starts a streamed run on the thread and forwards its events.
// When the run pauses on requires_action, the client executes the requested
// tools locally and resumes the stream by submitting their outputs.
func (c *Client) StreamRun(ctx context.Context, threadID, agentID string) (<-chan models.StreamEvent, <-chan error) {
	respChan := make(chan models.StreamEvent)
	errChan := make(chan error, 1)

	go func() {
		defer close(respChan)
		defer close(errChan)

		path := "/threads/" + threadID + "/runs"
		var body interface{} = createRunRequest{AssistantID: agentID, Stream: true}

		for {
			action, err := c.streamOnce(ctx, path, body, respChan)
			if err != nil {
				errChan <- err
				return
			}
			if action == nil {
				return
			}

			outputs := make([]toolOutput, 0, len(action.toolCalls))
			for _, call := range action.toolCalls {
				result, err := c.Executor.ExecuteTool(call.Function.Name, call.Function.Arguments)
				if err != nil {
					c.Logger.Printf("Tool %s failed: %v", call.Function.Name, err)
					result = fmt.Sprintf(`{"error": %q}`, err.Error())
				}
				outputs = append(outputs, toolOutput{ToolCallID: call.ID, Output: result})
			}

			path = "/threads/" + threadID + "/runs/" + action.runID + "/submit_tool_outputs"
			body = submitToolOutputsRequest{ToolOutputs: outputs, Stream: true}
		}
	}()

	return respChan, errChan
}

// streamOnce runs one SSE connection, forwarding parsed events. It returns
// the pending tool calls when the run pauses on requires_action, or nil when
// the stream finishes.
func (c *Client) streamOnce(ctx context.Context, path string, body interface{}, respChan chan<- models.StreamEvent) (*pendingAction, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url(path), bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var errResp apiErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("agent service error: %s (code: %s)", errResp.Error.Message, errResp.Error.Code)
		}
		return nil, fmt.Errorf("agent service error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	reader := bufio.NewReader(resp.Body)
	eventName := ""
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("error reading stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "event:") {
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if eventName == eventDone || data == "[DONE]" {
			return nil, nil
		}

		ev, run, ok := parseEvent(eventName, data)
		if !ok {
			continue
		}
		select {
		case respChan <- ev:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if run != nil && run.Status == models.RunStatusRequiresAction && run.RequiredAction != nil {
			return &pendingAction{
				runID:     run.ID,
				toolCalls: run.RequiredAction.SubmitToolOutputs.ToolCalls,
			}, nil
		}
		if run != nil && (run.Status == models.RunStatusFailed || run.Status == models.RunStatusCancelled || run.Status == models.RunStatusCompleted) {
			return nil, nil
		}
	}
}

// parseEvent maps a named SSE payload to a stream event. The run object is
// returned alongside so the caller can react to terminal statuses.
func parseEvent(eventName, data string) (models.StreamEvent, *models.ThreadRun, bool) {
	switch {
	case eventName == eventThreadMessageDelta:
		var chunk models.MessageDeltaChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			log.Printf("Warning: Failed to unmarshal message delta: %v, data: %s", err, data)
			return models.StreamEvent{}, nil, false
		}
		return models.StreamEvent{Kind: models.EventMessageDelta, MessageDelta: &chunk}, nil, true

	case eventName == eventThreadMessageCompleted:
		var message models.ThreadMessage
		if err := json.Unmarshal([]byte(data), &message); err != nil {
			log.Printf("Warning: Failed to unmarshal message: %v, data: %s", err, data)
			return models.StreamEvent{}, nil, false
		}
		return models.StreamEvent{Kind: models.EventMessageCompleted, Message: &message}, nil, true

	case eventName == eventThreadRunStepDelta:
		var chunk models.RunStepDeltaChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			log.Printf("Warning: Failed to unmarshal step delta: %v, data: %s", err, data)
			return models.StreamEvent{}, nil, false
		}
		return models.StreamEvent{Kind: models.EventToolCallDelta, StepDelta: &chunk}, nil, true

	case strings.HasPrefix(eventName, eventThreadRunStepPrefix):
		var step models.RunStep
		if err := json.Unmarshal([]byte(data), &step); err != nil {
			log.Printf("Warning: Failed to unmarshal run step: %v, data: %s", err, data)
			return models.StreamEvent{}, nil, false
		}
		return models.StreamEvent{Kind: models.EventRunStep, Step: &step}, nil, true

	case strings.HasPrefix(eventName, eventThreadRunPrefix):
		var run models.ThreadRun
		if err := json.Unmarshal([]byte(data), &run); err != nil {
			log.Printf("Warning: Failed to unmarshal run: %v, data: %s", err, data)
			return models.StreamEvent{}, nil, false
		}
		return models.StreamEvent{Kind: models.EventRunStatus, Run: &run}, &run, true

	default:
		return models.StreamEvent{}, nil, false
	}
}
