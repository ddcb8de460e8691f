// Package storage persists a single exported snapshot.Snapshot to disk for
// cmd/ums's --state-file flag. The core engine performs no file I/O of its
// own (spec.md §1); this package is where the CLI shell persists engine
// state, and it does so with the teacher's atomic-write discipline:
// write to a temp file in the target directory, fsync, then rename, so a
// crash mid-write never leaves a half-written state file behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bleedingdev/ums/internal/snapshot"
)

// DefaultStateFile is the default path for a project-local state file.
const DefaultStateFile = ".ums/state.json"

// StateStore persists one snapshot.Snapshot to a single JSON file.
type StateStore struct {
	Path string
	mu   sync.Mutex
}

// NewStateStore builds a store writing to path.
func NewStateStore(path string) *StateStore {
	return &StateStore{Path: path}
}

// Load reads the snapshot at Path. A missing file is not an error: it
// returns the zero Snapshot and ok=false, matching the engine's stance
// that absent state is the starting state.
func (s *StateStore) Load() (snap snapshot.Snapshot, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return snapshot.Snapshot{}, false, nil
	}
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("decode state file: %w", err)
	}
	return snap, true, nil
}

// Save writes snap to Path atomically: a temp file in the same directory,
// fsynced, then renamed over the target.
func (s *StateStore) Save(snap snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-state-")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}

	success = true
	return nil
}
