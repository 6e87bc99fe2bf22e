package sessions

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/salespilot/salespilot/models"
	"github.com/salespilot/salespilot/stores"
)

// submitCooldown rejects resubmissions within this window of the previous
// accepted one (double-click / duplicate network retry guard).
const submitCooldown = 2 * time.Second

// ChatSession owns one conversation: its transcript, tool tracker, remote
// thread, and reducer. One session serializes interaction; multiple
// sessions are fully independent.
type ChatSession struct {
	ID      string
	AgentID string

	Service RunService
	Store   stores.MessageStore // optional; nil disables persistence
	Traces  TraceSink
	Logger  *log.Logger

	transcript *Transcript
	tracker    *ToolTracker
	reducer    *Reducer

	mu           sync.Mutex
	threadID     string
	lastAccepted time.Time
	awaiting     bool
	now          func() time.Time
}

// Submit validates a user utterance, forwards it to the remote thread, and
// drives the run's event stream through the reducer. The returned channel
// yields one transcript snapshot after every processed event and a final
// snapshot before closing, on every path. Cancelling ctx stops processing
// and releases the remote stream.
func (s *ChatSession) Submit(ctx context.Context, userText string) <-chan Snapshot {
	out := make(chan Snapshot)

	accepted := s.acceptSubmission(userText)

	go func() {
		defer close(out)
		if accepted {
			defer s.endRun()
		}

		emit := func() bool {
			select {
			case out <- s.transcript.Snapshot():
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !accepted {
			emit()
			return
		}

		s.transcript.Append(ChatEntry{Role: RoleUser, Content: userText})
		s.persistEntry(ChatEntry{Role: RoleUser, Content: userText})
		if !emit() {
			return
		}

		runStart := s.transcript.Len()

		threadID, err := s.ensureThread(ctx)
		if err != nil {
			s.appendErrorEntry("Error sending message: " + err.Error())
			emit()
			return
		}

		if err := s.Service.SendMessage(ctx, threadID, userText); err != nil {
			s.Logger.Printf("error sending message: %v", err)
			s.appendErrorEntry("Error sending message: " + err.Error())
			s.persistSince(runStart)
			emit()
			return
		}

		events, errs := s.Service.StreamRun(ctx, threadID, s.AgentID)
		s.consumeStream(ctx, events, errs, emit)

		s.persistSince(runStart)
		emit()
	}()

	return out
}

// consumeStream applies events one at a time, yielding a snapshot after each.
// A failure on a single event is logged and skipped; a stream-level failure
// appends one visible error entry and ends consumption.
func (s *ChatSession) consumeStream(ctx context.Context, events <-chan models.StreamEvent, errs <-chan error, emit func() bool) {
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				// The service buffers a stream error and then closes both
				// channels, so a failure may still be sitting on errs; keep
				// draining it before declaring the stream finished.
				events = nil
				continue
			}
			s.applyEvent(ev)
			if !emit() {
				return
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				s.Logger.Printf("stream error: %v", err)
				s.appendErrorEntry("An error occurred while processing your request: " + err.Error())
				return
			}

		case <-ctx.Done():
			return
		}
	}
	s.Logger.Printf("agent stream finished")
}

// applyEvent isolates one event: reducer errors and panics are logged and
// the event is dropped, never aborting the stream. A failed run status also
// surfaces as a visible error entry, consistent with the other failure
// paths.
func (s *ChatSession) applyEvent(ev models.StreamEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			s.Logger.Printf("panic processing stream event %q: %v", ev.Kind, rec)
		}
	}()

	if err := s.reducer.Apply(ev); err != nil {
		s.Logger.Printf("skipping event: %v", err)
		return
	}

	if ev.Kind == models.EventRunStatus && ev.Run != nil && ev.Run.Status == models.RunStatusFailed {
		msg := "The assistant run failed."
		if ev.Run.LastError != nil {
			msg += " Error type: " + ev.Run.LastError.Code + ", Message: " + ev.Run.LastError.Message
		}
		s.appendErrorEntry(msg)
	}
}

// acceptSubmission enforces the empty-input and duplicate-submission guards.
// An accepted submission arms the cooldown window.
func (s *ChatSession) acceptSubmission(userText string) bool {
	if strings.TrimSpace(userText) == "" {
		s.Logger.Printf("empty message received, skipping")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting {
		s.Logger.Printf("a run is already in progress, skipping")
		return false
	}
	now := s.now()
	if now.Sub(s.lastAccepted) < submitCooldown {
		s.Logger.Printf("duplicate message submission detected, skipping")
		return false
	}
	s.lastAccepted = now
	s.awaiting = true
	return true
}

func (s *ChatSession) endRun() {
	s.mu.Lock()
	s.awaiting = false
	s.mu.Unlock()
}

func (s *ChatSession) ensureThread(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.threadID != "" {
		return s.threadID, nil
	}
	threadID, err := s.Service.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	s.threadID = threadID
	s.Logger.Printf("created thread %s", threadID)
	return threadID, nil
}

func (s *ChatSession) appendErrorEntry(message string) {
	s.transcript.Append(ChatEntry{Role: RoleAssistant, Content: message})
}

// ErrRunInProgress rejects a reset while a submission is still streaming.
// The transcript may only be mutated by one flow at a time.
var ErrRunInProgress = &AgentError{Message: "a run is in progress, try again when it completes"}

// Reset clears the transcript and tracker and detaches from the current
// remote thread; the next submission starts a fresh one. Resetting while a
// run is streaming is refused.
func (s *ChatSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting {
		s.Logger.Printf("reset refused, a run is in progress")
		return ErrRunInProgress
	}
	s.transcript.Reset()
	s.tracker.Reset()
	s.threadID = ""
	s.lastAccepted = time.Time{}
	s.Logger.Printf("session reset")
	return nil
}

// Transcript returns the session's current snapshot.
func (s *ChatSession) Transcript() Snapshot {
	return s.transcript.Snapshot()
}

// ThreadID reports the remote thread backing this session, if one exists.
func (s *ChatSession) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// GetChatHistory retrieves the persisted history in API response form.
func (s *ChatSession) GetChatHistory() ([]models.ChatHistoryMessage, error) {
	if s.Store == nil {
		return nil, nil
	}
	records, err := s.Store.FetchHistory(s.ID, 0)
	if err != nil {
		return nil, err
	}

	history := make([]models.ChatHistoryMessage, 0, len(records))
	for _, rec := range records {
		msg := models.ChatHistoryMessage{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			SessionID: rec.SessionID,
			Sequence:  rec.Sequence,
			Role:      rec.Role,
			Kind:      rec.Kind,
			Content:   rec.Content,
		}
		if rec.MetadataJSON != "" {
			if err := json.Unmarshal([]byte(rec.MetadataJSON), &msg.Metadata); err != nil {
				s.Logger.Printf("error unmarshalling metadata for msg ID %d: %v", rec.ID, err)
			}
		}
		history = append(history, msg)
	}
	return history, nil
}

// persistSince saves the entries a run produced, in their finalized state.
func (s *ChatSession) persistSince(start int) {
	for _, entry := range s.transcript.EntriesSince(start) {
		s.persistEntry(entry)
	}
}

func (s *ChatSession) persistEntry(entry ChatEntry) {
	if s.Store == nil {
		return
	}
	kind := "assistant_message"
	switch {
	case entry.Role == RoleUser:
		kind = "user_message"
	case entry.BubbleID() != "":
		kind = "tool_bubble"
	}
	if err := s.Store.SaveEntry(s.ID, entry.Role, kind, entry.Content, entry.Metadata); err != nil {
		s.Logger.Printf("error saving %s entry: %v", kind, err)
	}
}
