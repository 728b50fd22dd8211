package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/logger"
)

// FileStore persists the entitlement table as a single JSON document with a
// backup copy. The backup is refreshed from the last good primary before each
// write, so a crash mid-write never leaves both copies corrupt at once.
type FileStore struct {
	path       string
	backupPath string
	mu         sync.Mutex
}

// NewFileStore creates a JSON file store at path, creating parent directories
// as needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &FileStore{
		path:       path,
		backupPath: path + ".bak",
	}, nil
}

// Load reads the full table. A missing or corrupt primary falls back to the
// backup copy; when that also fails an empty table is returned. Load never
// fails the caller.
func (s *FileStore) Load() (map[int64]*entitlement.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.readTable(s.path)
	if err == nil {
		return table, nil
	}

	logger.Warn("Primary data file unreadable, trying backup", map[string]interface{}{
		"error": err.Error(),
		"path":  s.path,
	})

	table, backupErr := s.readTable(s.backupPath)
	if backupErr == nil {
		logger.Info("Recovered entitlement table from backup", map[string]interface{}{
			"path":  s.backupPath,
			"users": len(table),
		})
		return table, nil
	}

	if !os.IsNotExist(err) || !os.IsNotExist(backupErr) {
		logger.Warn("Backup data file unreadable, starting empty", map[string]interface{}{
			"error": backupErr.Error(),
			"path":  s.backupPath,
		})
	}

	return make(map[int64]*entitlement.Record), nil
}

// Save writes the full table durably: the current primary is copied to the
// backup first, then the new table replaces the primary via an atomic rename.
func (s *FileStore) Save(table map[int64]*entitlement.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]*entitlement.Record, len(table))
	for id, rec := range table {
		doc[strconv.FormatInt(id, 10)] = rec
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entitlement table: %w", err)
	}

	// Preserve the last good primary before touching anything
	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.backupPath, prev, 0644); err != nil {
			return fmt.Errorf("failed to write backup copy: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read primary for backup: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	return nil
}

func (s *FileStore) readTable(path string) (map[int64]*entitlement.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]*entitlement.Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corrupt data file %s: %w", path, err)
	}

	table := make(map[int64]*entitlement.Record, len(doc))
	for key, rec := range doc {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			logger.Warn("Skipping entitlement record with invalid user id", map[string]interface{}{
				"key":  key,
				"path": path,
			})
			continue
		}
		table[id] = rec
	}

	return table, nil
}
