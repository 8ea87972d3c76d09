package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pixil98/go-errors"
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatingSpec is anything that can validate itself after being loaded.
type ValidatingSpec interface {
	Validate() error
}

// Storer persists and retrieves records by key.
type Storer[T ValidatingSpec] interface {
	Save(string, T) error
	Get(string) T
	GetAll() map[string]T
	Len() int
}

// Asset is the on-disk envelope for a stored record.
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	Key     string `json:"key"`
	Spec    T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Key == "" {
		el.Add(fmt.Errorf("key must be set"))
	} else if !keyPattern.MatchString(a.Key) {
		el.Add(fmt.Errorf("key %q contains invalid characters", a.Key))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

// FileStore keeps every record cached in memory and mirrors each one to a
// json file under its directory.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[string]T

	mu sync.RWMutex
}

// NewFileStore loads all json assets under path. The directory is created if
// it does not exist.
func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s := &FileStore[T]{
		path:    path,
		records: map[string]T{},
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return fmt.Errorf("reading store directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		asset, err := s.loadAsset(filepath.Join(s.path, entry.Name()))
		if err != nil {
			return err
		}

		if err := asset.Validate(); err != nil {
			return fmt.Errorf("validating %s: %w", entry.Name(), err)
		}

		if _, ok := s.records[asset.Key]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Key)
		}

		s.records[asset.Key] = asset.Spec
	}

	return nil
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(jsonData, asset); err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

func (s *FileStore[T]) Save(key string, o T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = o

	asset := &Asset[T]{
		Version: 1,
		Key:     key,
		Spec:    o,
	}

	jsonData, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return atomicWrite(s.filePath(key), jsonData, 0644)
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore[T]) Get(key string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[key]
	if !ok {
		var nilVal T
		return nilVal
	}

	return val
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := map[string]T{}
	for key, v := range s.records {
		vals[key] = v
	}

	return vals
}

func (s *FileStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *FileStore[T]) filePath(key string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", key))
}
