package sessions

// Transcript is the ordered, mutable sequence of chat entries for one
// session. Entries are only appended or mutated in place, never reordered;
// display order is insertion order. An auxiliary map associates external
// message ids with their entries so streamed deltas can grow a message
// without scanning; the map is a back-reference only and is invalidated by
// Reset.
type Transcript struct {
	entries     []*ChatEntry
	byMessageID map[string]*ChatEntry
}

func NewTranscript() *Transcript {
	return &Transcript{
		byMessageID: make(map[string]*ChatEntry),
	}
}

// Append adds an entry to the end of the transcript.
func (t *Transcript) Append(entry ChatEntry) {
	t.entries = append(t.entries, &entry)
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// StartAssistantMessage registers a new, empty assistant entry for an
// external message id. No-op if the id is already registered.
func (t *Transcript) StartAssistantMessage(messageID string) {
	if _, ok := t.byMessageID[messageID]; ok {
		return
	}
	entry := &ChatEntry{Role: RoleAssistant}
	t.entries = append(t.entries, entry)
	t.byMessageID[messageID] = entry
}

// AppendMessageText grows the content of the entry registered for messageID.
// Fragments for unregistered ids are dropped.
func (t *Transcript) AppendMessageText(messageID, fragment string) {
	if entry, ok := t.byMessageID[messageID]; ok {
		entry.Content += fragment
	}
}

// CompleteMessage replaces the registered entry's content with the final
// text (idempotent close). If the id was never registered and the final text
// is non-empty, a new assistant entry is appended and associated with it.
func (t *Transcript) CompleteMessage(messageID, finalText string) {
	if entry, ok := t.byMessageID[messageID]; ok {
		entry.Content = finalText
		return
	}
	if finalText == "" {
		return
	}
	entry := &ChatEntry{Role: RoleAssistant, Content: finalText}
	t.entries = append(t.entries, entry)
	t.byMessageID[messageID] = entry
}

// UpsertToolBubble creates or updates the tool bubble identified by bubbleID.
// The search runs from the most recent entry backward: bubbles live near the
// end of the transcript, and on id collision the most recent one wins.
func (t *Transcript) UpsertToolBubble(bubbleID, title, content, status string) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		entry := t.entries[i]
		if entry.Metadata != nil && entry.Metadata[MetaID] == bubbleID {
			entry.Metadata[MetaTitle] = title
			entry.Metadata[MetaStatus] = status
			entry.Content = content
			return
		}
	}

	t.entries = append(t.entries, &ChatEntry{
		Role:    RoleTool,
		Content: content,
		Metadata: map[string]string{
			MetaID:     bubbleID,
			MetaTitle:  title,
			MetaStatus: status,
		},
	})
}

// Snapshot returns a render-ready copy of all entries.
func (t *Transcript) Snapshot() Snapshot {
	out := make(Snapshot, len(t.entries))
	for i, entry := range t.entries {
		out[i] = entry.clone()
	}
	return out
}

// EntriesSince returns copies of the entries appended at or after index
// start, as they stand now. Used to persist a run's finalized entries.
func (t *Transcript) EntriesSince(start int) Snapshot {
	if start < 0 {
		start = 0
	}
	if start > len(t.entries) {
		return nil
	}
	out := make(Snapshot, 0, len(t.entries)-start)
	for _, entry := range t.entries[start:] {
		out = append(out, entry.clone())
	}
	return out
}

// Reset drops all entries and invalidates the message-id associations.
func (t *Transcript) Reset() {
	t.entries = nil
	t.byMessageID = make(map[string]*ChatEntry)
}
