package stores

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements MessageStore for SQLite databases
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(config *StoreConfig) (*SQLiteStore, error) {
	if config.Type != "sqlite" {
		return nil, fmt.Errorf("invalid store type for SQLite store: %s", config.Type)
	}

	store := &SQLiteStore{
		path: config.Connection,
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	return store, nil
}

// NewSQLiteStoreSimple creates a new SQLite store with just a file path
func NewSQLiteStoreSimple(dbPath string) (*SQLiteStore, error) {
	config := NewStoreConfig("sqlite", dbPath)
	return NewSQLiteStore(config)
}

// Connect establishes a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	s.db = db

	if err := s.db.AutoMigrate(&ChatSessionRecord{}, &Message{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (s *SQLiteStore) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// DB exposes the underlying GORM handle so auxiliary stores (traces) can
// share one connection.
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SaveEntry persists one transcript entry, creating the session record on
// first write.
func (s *SQLiteStore) SaveEntry(sessionID, role, kind, content string, metadata map[string]string) error {
	return saveEntry(s.db, sessionID, role, kind, content, metadata)
}

// FetchHistory retrieves entries for a session in sequence order.
// limit: maximum number of entries to retrieve (0 = return all).
func (s *SQLiteStore) FetchHistory(sessionID string, limit int) ([]Message, error) {
	return fetchHistory(s.db, sessionID, limit)
}

// CreateSession creates a new session record
func (s *SQLiteStore) CreateSession(sessionID, threadID string) error {
	return createSession(s.db, sessionID, threadID)
}

// ListSessions returns all session records with basic details
func (s *SQLiteStore) ListSessions() ([]SessionInfo, error) {
	return listSessions(s.db)
}

// Shared GORM implementations; SQLite and Postgres stores differ only in
// dialector and connection handling.

func saveEntry(db *gorm.DB, sessionID, role, kind, content string, metadata map[string]string) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Ensure session record exists (create on first entry). Count avoids
	// "record not found" noise in the GORM logs.
	var count int64
	if err := db.Model(&ChatSessionRecord{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		log.Printf("Warning: Error checking for session %s: %v", sessionID, err)
	} else if count == 0 {
		if err := createSession(db, sessionID, ""); err != nil {
			log.Printf("Warning: Failed to create session record for %s: %v", sessionID, err)
		}
	}

	if err := db.Model(&Message{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count existing messages: %w", err)
	}
	seq := int(count) + 1

	metadataJSON := ""
	bubbleID := ""
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for database: %w", err)
		}
		metadataJSON = string(data)
		bubbleID = metadata["id"]
	}

	msg := Message{
		SessionID:    sessionID,
		Sequence:     seq,
		Role:         role,
		Kind:         kind,
		Content:      content,
		BubbleID:     bubbleID,
		MetadataJSON: metadataJSON,
	}

	tx := db.Begin()
	if err := tx.Create(&msg).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create message record: %w", err)
	}

	if err := tx.Model(&ChatSessionRecord{}).Where("session_id = ?", sessionID).Update("message_count", seq).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update session message count: %w", err)
	}

	return tx.Commit().Error
}

func fetchHistory(db *gorm.DB, sessionID string, limit int) ([]Message, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var msgs []Message
	query := db.Where("session_id = ?", sessionID).Order("sequence ASC")

	if limit > 0 {
		var count int64
		if err := db.Model(&Message{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count messages: %w", err)
		}
		if count > int64(limit) {
			query = query.Offset(int(count) - limit)
		}
	}

	if err := query.Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return msgs, nil
}

func createSession(db *gorm.DB, sessionID, threadID string) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.Create(&ChatSessionRecord{
		SessionID:    sessionID,
		ThreadID:     threadID,
		MessageCount: 0,
	}).Error
}

func listSessions(db *gorm.DB) ([]SessionInfo, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var records []ChatSessionRecord
	if err := db.Order("updated_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	result := make([]SessionInfo, len(records))
	for i, r := range records {
		result[i] = SessionInfo{
			SessionID:    r.SessionID,
			ThreadID:     r.ThreadID,
			MessageCount: r.MessageCount,
			CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:    r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return result, nil
}
