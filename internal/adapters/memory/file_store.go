package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mikey/llm-email-assistant/internal/core"
	"go.uber.org/zap"
)

// FileStore is a whole-file JSON implementation of the MemoryStore
// interface: a single map keyed by sender address, rewritten in full on
// each append. The mutex serializes the read-modify-write cycle so
// concurrent appends cannot lose updates.
type FileStore struct {
	path       string
	maxHistory int
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewFileStore creates a new file-backed memory store
func NewFileStore(path string, maxHistory int, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:       path,
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// LoadRecent returns up to maxHistory entries for the sender, oldest first
func (s *FileStore) LoadRecent(ctx context.Context, sender string) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	entries := all[sender]
	if len(entries) > s.maxHistory {
		entries = entries[len(entries)-s.maxHistory:]
	}
	return entries, nil
}

// Append adds an entry to the sender's history, trims to the retention
// bound and writes the full map back.
func (s *FileStore) Append(ctx context.Context, sender string, entry core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	entries := append(all[sender], entry)
	if len(entries) > s.maxHistory {
		entries = entries[len(entries)-s.maxHistory:]
	}
	all[sender] = entries

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode memory store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write memory store: %w", err)
	}
	return nil
}

// readAll loads the full stored map. A missing or corrupt file is
// treated as an empty store.
func (s *FileStore) readAll() map[string][]core.HistoryEntry {
	all := make(map[string][]core.HistoryEntry)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read memory store, treating as empty",
				zap.String("path", s.path),
				zap.Error(err))
		}
		return all
	}

	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("Memory store is corrupt, treating as empty",
			zap.String("path", s.path),
			zap.Error(err))
		return make(map[string][]core.HistoryEntry)
	}

	return all
}
