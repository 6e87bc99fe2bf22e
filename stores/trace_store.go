package stores

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RunTrace represents a single trace event recorded while processing an
// agent run. Indexed by session_id for efficient retrieval.
type RunTrace struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	CreatedAt time.Time      `json:"-"`
	SessionID string         `gorm:"index:idx_trace_session;not null" json:"session_id"`
	AttrsJSON string         `gorm:"type:text" json:"-"`       // Stored as JSON string
	Attrs     map[string]any `gorm:"-" json:"attrs,omitempty"` // Not stored, computed from AttrsJSON
	Timestamp int64          `gorm:"not null" json:"timestamp"`
}

// BeforeSave marshals Attrs to AttrsJSON
func (t *RunTrace) BeforeSave(tx *gorm.DB) error {
	if t.Attrs != nil {
		data, err := json.Marshal(t.Attrs)
		if err != nil {
			return err
		}
		t.AttrsJSON = string(data)
	}
	return nil
}

// AfterFind unmarshals AttrsJSON to Attrs
func (t *RunTrace) AfterFind(tx *gorm.DB) error {
	if t.AttrsJSON != "" {
		return json.Unmarshal([]byte(t.AttrsJSON), &t.Attrs)
	}
	return nil
}

// TraceStore interface for trace persistence operations
type TraceStore interface {
	// SaveTrace saves a single trace event
	SaveTrace(trace *RunTrace) error

	// GetTracesBySession retrieves all traces for a session
	GetTracesBySession(sessionID string) ([]*RunTrace, error)

	// DeleteTracesBySession removes all traces for a session
	DeleteTracesBySession(sessionID string) error
}

// GORMTraceStore implements TraceStore for SQLite/PostgreSQL via GORM
type GORMTraceStore struct {
	db *gorm.DB
}

// NewGORMTraceStore creates a trace store from an existing GORM database connection
func NewGORMTraceStore(db *gorm.DB) (*GORMTraceStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if err := db.AutoMigrate(&RunTrace{}); err != nil {
		return nil, fmt.Errorf("failed to migrate run_traces table: %w", err)
	}

	return &GORMTraceStore{db: db}, nil
}

// SaveTrace saves a single trace event
func (s *GORMTraceStore) SaveTrace(trace *RunTrace) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Create(trace).Error
}

// GetTracesBySession retrieves all traces for a session, ordered by timestamp
func (s *GORMTraceStore) GetTracesBySession(sessionID string) ([]*RunTrace, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var traces []*RunTrace
	err := s.db.Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&traces).Error

	return traces, err
}

// DeleteTracesBySession removes all traces for a session
func (s *GORMTraceStore) DeleteTracesBySession(sessionID string) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("session_id = ?", sessionID).Delete(&RunTrace{}).Error
}

// Record implements the session trace sink. Failures are swallowed so a
// storage hiccup never interrupts an in-flight run.
func (s *GORMTraceStore) Record(sessionID string, attrs map[string]interface{}) {
	trace := &RunTrace{
		SessionID: sessionID,
		Attrs:     attrs,
		Timestamp: time.Now().UnixMilli(),
	}
	_ = s.SaveTrace(trace)
}
