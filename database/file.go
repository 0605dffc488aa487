package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore - Guild settings kept in a flat JSON file keyed by guild ID
type FileStore struct {
	mu     sync.RWMutex
	path   string
	guilds map[string]GuildConfig
}

// OpenFile - Load the settings file, creating an empty one if it does not exist
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, guilds: make(map[string]GuildConfig)}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path - Location of the settings file
func (s *FileStore) Path() string { return s.path }

// Reload - Re-read the settings file, replacing the in-memory copy
func (s *FileStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	guilds := make(map[string]GuildConfig)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &guilds); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
	}
	for id, gc := range guilds {
		gc.GuildID = id
		guilds[id] = gc
	}

	s.mu.Lock()
	s.guilds = guilds
	s.mu.Unlock()
	return nil
}

// Get - Get settings for a guild
func (s *FileStore) Get(gid string) (GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gc, ok := s.guilds[gid]
	if !ok {
		return GuildConfig{GuildID: gid}, ErrNotConfigured
	}
	return gc, nil
}

// Put - Store settings for a guild and rewrite the file
func (s *FileStore) Put(gc GuildConfig) error {
	if err := Validate(gc); err != nil {
		return err
	}
	if gc.UpdatedAt.IsZero() {
		gc.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.guilds[gc.GuildID]
	s.guilds[gc.GuildID] = gc
	if err := s.flushLocked(); err != nil {
		// Keep memory in line with disk
		if existed {
			s.guilds[gc.GuildID] = prev
		} else {
			delete(s.guilds, gc.GuildID)
		}
		return err
	}
	return nil
}

// List - All configured guilds, ordered by ID
func (s *FileStore) List() ([]GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GuildConfig, 0, len(s.guilds))
	for _, gc := range s.guilds {
		out = append(out, gc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

// Close - Nothing to release, the file is rewritten on every Put
func (s *FileStore) Close() error { return nil }

func (s *FileStore) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked writes pretty-printed JSON through a temp file and rename.
func (s *FileStore) flushLocked() error {
	bts, err := json.MarshalIndent(s.guilds, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(bts, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
