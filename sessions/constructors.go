package sessions

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/salespilot/salespilot/stores"
)

// NewChatSession creates a session controller bound to one remote agent.
// store and traces may be nil; persistence and observability then degrade to
// no-ops.
func NewChatSession(sessionID, agentID string, service RunService, store stores.MessageStore, traces TraceSink) *ChatSession {
	logger := log.New(os.Stdout, fmt.Sprintf("[chat %s] ", sessionID), log.LstdFlags)
	if traces == nil {
		traces = NopTraceSink{}
	}

	transcript := NewTranscript()
	tracker := NewToolTracker(transcript, logger)

	return &ChatSession{
		ID:         sessionID,
		AgentID:    agentID,
		Service:    service,
		Store:      store,
		Traces:     traces,
		Logger:     logger,
		transcript: transcript,
		tracker:    tracker,
		reducer:    NewReducer(sessionID, transcript, tracker, traces, logger),
		now:        time.Now,
	}
}
