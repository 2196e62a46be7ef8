package memory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the MemoryStore interface
type SQLiteStore struct {
	db         *sql.DB
	maxHistory int
	logger     *zap.Logger
}

// NewSQLiteStore creates a new SQLite-backed memory store
func NewSQLiteStore(dbPath string, maxHistory int, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sender TEXT NOT NULL,
			from_addr TEXT,
			to_addr TEXT,
			subject TEXT,
			body TEXT,
			timestamp TEXT,
			intent TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_sender ON conversation_history(sender)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:         db,
		maxHistory: maxHistory,
		logger:     logger,
	}, nil
}

// LoadRecent returns up to maxHistory entries for the sender, oldest first
func (s *SQLiteStore) LoadRecent(ctx context.Context, sender string) ([]core.HistoryEntry, error) {
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

	// Reverse to oldest-first
	entries := make([]core.HistoryEntry, len(newestFirst))
	for i, entry := range newestFirst {
		entries[len(newestFirst)-1-i] = entry
	}
	return entries, nil
}

// Append inserts an entry and trims the sender's history to the
// retention bound in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, sender string, entry core.HistoryEntry) error {
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

	_, err = tx.ExecContext(ctx, `
		DELETE FROM conversation_history
		WHERE sender = ? AND id NOT IN (
			SELECT id FROM conversation_history
			WHERE sender = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, sender, sender, s.maxHistory)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
