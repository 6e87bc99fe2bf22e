package server

import (
	"sync"

	salespilot "github.com/salespilot/salespilot"
	"github.com/salespilot/salespilot/common_tools"
	"github.com/salespilot/salespilot/models/foundry"
	"github.com/salespilot/salespilot/sessions"
	"github.com/salespilot/salespilot/stores"
)

// Manager owns the live chat sessions. Each session gets its own route
// state, its own tool bindings, and its own agent service client so tool
// calls from one conversation never touch another's day plan.
type Manager struct {
	Endpoint  string
	APIKey    string
	AgentName string
	Model     string
	AgentID   string

	Store  stores.MessageStore
	Traces stores.TraceStore
	Maps   *common_tools.MapsClient

	// NewService builds the run service for a session. Overridable so
	// tests can swap in a scripted service.
	NewService func(executor foundry.ToolExecutor) sessions.RunService

	mu       sync.Mutex
	sessions map[string]*sessions.ChatSession
	states   map[string]*common_tools.RouteState
}

// NewManager wires a session manager over the given store and trace sink.
func NewManager(endpoint, apiKey, agentName, model string, store stores.MessageStore, traces stores.TraceStore) *Manager {
	m := &Manager{
		Endpoint:  endpoint,
		APIKey:    apiKey,
		AgentName: agentName,
		Model:     model,
		Store:     store,
		Traces:    traces,
		Maps:      common_tools.NewMapsClient(),
		sessions:  make(map[string]*sessions.ChatSession),
		states:    make(map[string]*common_tools.RouteState),
	}
	m.NewService = func(executor foundry.ToolExecutor) sessions.RunService {
		return foundry.NewClient(m.Endpoint, m.APIKey, executor)
	}
	return m
}

// GetOrCreate returns the session for the ID, creating it on first use.
func (m *Manager) GetOrCreate(sessionID string) *sessions.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[sessionID]; ok {
		return session
	}

	state := common_tools.NewRouteState()
	tools := common_tools.SalesTools(state, m.Maps)
	agent := salespilot.Create_Agent(m.AgentName, m.Model, salespilot.AgentInstructions, tools)
	service := m.NewService(agent)

	var sink sessions.TraceSink
	if recorder, ok := m.Traces.(sessions.TraceSink); ok && m.Traces != nil {
		sink = recorder
	}

	session := sessions.NewChatSession(sessionID, m.AgentID, service, m.Store, sink)
	m.sessions[sessionID] = session
	m.states[sessionID] = state
	return session
}

// Reset clears a session's transcript and sales day state. It fails when
// the session still has a run streaming, leaving both untouched.
func (m *Manager) Reset(sessionID string) error {
	m.mu.Lock()
	session := m.sessions[sessionID]
	state := m.states[sessionID]
	m.mu.Unlock()

	if session != nil {
		if err := session.Reset(); err != nil {
			return err
		}
	}
	if state != nil {
		state.Reset()
	}
	return nil
}

// RouteStates returns the active route states, for the daily reset job.
func (m *Manager) RouteStates() []*common_tools.RouteState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*common_tools.RouteState, 0, len(m.states))
	for _, state := range m.states {
		out = append(out, state)
	}
	return out
}
