package stores

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresStore implements MessageStore for PostgreSQL databases
type PostgresStore struct {
	db  *gorm.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(config *StoreConfig) (*PostgresStore, error) {
	if config.Type != "postgres" {
		return nil, fmt.Errorf("invalid store type for PostgreSQL store: %s", config.Type)
	}

	store := &PostgresStore{
		dsn: config.Connection,
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	return store, nil
}

// NewPostgresStoreSimple creates a new PostgreSQL store with just a DSN
func NewPostgresStoreSimple(dsn string) (*PostgresStore, error) {
	config := NewStoreConfig("postgres", dsn)
	return NewPostgresStore(config)
}

// Connect establishes a connection to the PostgreSQL database
func (s *PostgresStore) Connect() error {
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	s.db = db

	if err := s.db.AutoMigrate(&ChatSessionRecord{}, &Message{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
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
func (s *PostgresStore) Ping() error {
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
func (s *PostgresStore) DB() *gorm.DB {
	return s.db
}

// SaveEntry persists one transcript entry, creating the session record on
// first write.
func (s *PostgresStore) SaveEntry(sessionID, role, kind, content string, metadata map[string]string) error {
	return saveEntry(s.db, sessionID, role, kind, content, metadata)
}

// FetchHistory retrieves entries for a session in sequence order.
func (s *PostgresStore) FetchHistory(sessionID string, limit int) ([]Message, error) {
	return fetchHistory(s.db, sessionID, limit)
}

// CreateSession creates a new session record
func (s *PostgresStore) CreateSession(sessionID, threadID string) error {
	return createSession(s.db, sessionID, threadID)
}

// ListSessions returns all session records with basic details
func (s *PostgresStore) ListSessions() ([]SessionInfo, error) {
	return listSessions(s.db)
}
