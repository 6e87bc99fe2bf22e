package stores

import (
	"gorm.io/gorm"
)

// Message is one persisted transcript entry within a chat session.
type Message struct {
	gorm.Model
	SessionID string `gorm:"index;not null"`
	Sequence  int    `gorm:"not null"`
	Role      string `gorm:"not null"` // "user", "assistant", "tool"
	Kind      string `gorm:"not null"` // "user_message", "assistant_message", "tool_bubble"
	Content   string `gorm:"type:text"`
	// BubbleID is the stable tool-bubble identifier, when the entry is one.
	BubbleID string `gorm:"index" json:"bubble_id,omitempty"`
	// MetadataJSON stores the JSON-marshaled metadata map (id/title/status).
	MetadataJSON string `gorm:"type:json"`
}

// ChatSessionRecord holds metadata for one chat session.
type ChatSessionRecord struct {
	gorm.Model
	SessionID    string    `gorm:"uniqueIndex;not null"`
	ThreadID     string    `gorm:"index"`
	MessageCount int       `gorm:"default:0"`
	Messages     []Message `gorm:"foreignKey:SessionID;references:SessionID"`
}

// SessionInfo holds basic session metadata for listing.
type SessionInfo struct {
	SessionID    string
	ThreadID     string
	MessageCount int
	CreatedAt    string
	UpdatedAt    string
}

// MessageStore abstracts transcript persistence.
type MessageStore interface {
	// Entry operations
	SaveEntry(sessionID, role, kind, content string, metadata map[string]string) error
	FetchHistory(sessionID string, limit int) ([]Message, error)

	// Session operations
	CreateSession(sessionID, threadID string) error
	ListSessions() ([]SessionInfo, error)

	// Connection management
	Connect() error
	Close() error

	// Health check
	Ping() error
}

// StoreConfig holds configuration for database stores
type StoreConfig struct {
	Type       string            `json:"type"`       // "sqlite", "postgres"
	Connection string            `json:"connection"` // connection string
	Options    map[string]string `json:"options"`    // additional options
}

// NewStoreConfig creates a new store configuration
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
		Options:    make(map[string]string),
	}
}

// WithOption adds an option to the store configuration
func (c *StoreConfig) WithOption(key, value string) *StoreConfig {
	c.Options[key] = value
	return c
}
