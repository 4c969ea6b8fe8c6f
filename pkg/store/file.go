package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per record in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store. If baseDir is empty it
// defaults to ~/.config/graphcanvas/documents/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "graphcanvas", "documents")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if validateID(id) != nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.recordPath(id))
}

func (s *FileStore) read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse document file %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stamped := stamp(rec)
	data, err := json.MarshalIndent(stamped, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	path := s.recordPath(rec.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	rec.UpdatedAt = stamped.UpdatedAt
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if validateID(id) != nil {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

// List skips files that fail to parse.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}
	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, rec.info())
	}
	sortInfos(infos)
	return infos, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
