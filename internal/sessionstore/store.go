// Package sessionstore persists finished monitoring sessions as one JSON
// file per session under the archive directory.
package sessionstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agenttop/internal/logging"
	"agenttop/internal/model"
)

// Store reads and writes session archives in a base directory.
type Store struct {
	baseDir string
	logger  logging.Logger
}

// New creates a store rooted at baseDir, expanding a leading ~/ and creating
// the directory if needed.
func New(baseDir string) *Store {
	if strings.HasPrefix(baseDir, "~/") {
		home, _ := os.UserHomeDir()
		baseDir = filepath.Join(home, baseDir[2:])
	}
	_ = os.MkdirAll(baseDir, 0755) // directory may already exist
	return &Store{
		baseDir: baseDir,
		logger:  logging.NewComponentLogger("SessionStore"),
	}
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s.json", sessionID))
}

// Save writes the archive, overwriting any previous file for the session.
func (s *Store) Save(archive *model.SessionArchive) error {
	if archive == nil || archive.Meta.ID == "" {
		return fmt.Errorf("archive requires a session id")
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", archive.Meta.ID, err)
	}
	if err := os.WriteFile(s.path(archive.Meta.ID), data, 0644); err != nil {
		return fmt.Errorf("write session %s: %w", archive.Meta.ID, err)
	}
	s.logger.Info("Saved session %s (%d events, %d agents)",
		archive.Meta.ID, len(archive.Events), len(archive.Agents))
	return nil
}

// Load reads one full archive by session id.
func (s *Store) Load(sessionID string) (*model.SessionArchive, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	var archive model.SessionArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		s.logger.Error("Failed to decode session file %s: %v", s.path(sessionID), err)
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &archive, nil
}

// metaOnly decodes just the meta field, keeping List cheap for large archives.
type metaOnly struct {
	Meta model.SessionMeta `json:"meta"`
}

// List returns the metas of all stored sessions, newest first. Corrupt files
// are logged and skipped rather than failing the listing.
func (s *Store) List() ([]model.SessionMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var metas []model.SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			s.logger.Error("Failed to read session file %s: %v", entry.Name(), err)
			continue
		}
		var m metaOnly
		if err := json.Unmarshal(data, &m); err != nil || m.Meta.ID == "" {
			s.logger.Error("Skipping corrupt session file %s", entry.Name())
			continue
		}
		metas = append(metas, m.Meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.After(metas[j].Timestamp)
	})
	return metas, nil
}

// Delete removes a stored session. Deleting a missing session is not an
// error: the goal state is already reached.
func (s *Store) Delete(sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
