package memory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the MemoryStore interface
type MySQLStore struct {
	db         *sql.DB
	maxHistory int
	logger     *zap.Logger
}

// NewMySQLStore creates a new MySQL-backed memory store
func NewMySQLStore(dsn string, maxHistory int, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sender VARCHAR(255) NOT NULL,
			from_addr VARCHAR(255),
			to_addr VARCHAR(255),
			subject TEXT,
			body TEXT,
			timestamp VARCHAR(64),
			intent VARCHAR(32),
			INDEX idx_history_sender (sender)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:         db,
		maxHistory: maxHistory,
		logger:     logger,
	}, nil
}

// LoadRecent returns up to maxHistory entries for the sender, oldest first
func (s *MySQLStore) LoadRecent(ctx context.Context, sender string) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_addr, to_addr, subject, body, timestamp, intent
		FROM conversation_history
		WHERE sender = ?
		ORDER BY id DESC
		LIMIT ?
	`, sender, s.maxHistory)
	if err != nil {
		s.logger.Warn("Failed to query conversation history, treating as empty",
			zap.String("sender", sender),
			zap.Error(err))
		return nil, nil
	}
	defer rows.Close()

	var newestFirst []core.HistoryEntry
	for rows.Next() {
		var entry core.HistoryEntry
		if err := rows.Scan(&entry.From, &entry.To, &entry.Subject, &entry.Body, &entry.Timestamp, &entry.Intent); err != nil {
			s.logger.Warn("Failed to scan history row", zap.Error(err))
			return nil, nil
		}
		newestFirst = append(newestFirst, entry)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("Failed to read conversation history", zap.Error(err))
		return nil, nil
	}

	entries := make([]core.HistoryEntry, len(newestFirst))
	for i, entry := range newestFirst {
		entries[len(newestFirst)-1-i] = entry
	}
	return entries, nil
}

// Append inserts an entry and trims the sender's history to the
// retention bound in one transaction.
func (s *MySQLStore) Append(ctx context.Context, sender string, entry core.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation_history (sender, from_addr, to_addr, subject, body, timestamp, intent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sender, entry.From, entry.To, entry.Subject, entry.Body, entry.Timestamp, entry.Intent)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	// MySQL cannot reference the target table in a subquery of the same
	// DELETE, so trim via the oldest surviving id.
	var cutoff sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT MIN(id) FROM (
			SELECT id FROM conversation_history
			WHERE sender = ?
			ORDER BY id DESC
			LIMIT ?
		) AS recent
	`, sender, s.maxHistory).Scan(&cutoff)
	if err != nil {
		return fmt.Errorf("failed to resolve trim cutoff: %w", err)
	}
	if cutoff.Valid {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM conversation_history
			WHERE sender = ? AND id < ?
		`, sender, cutoff.Int64)
		if err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
