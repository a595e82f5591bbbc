package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/shhac/schemadesk/internal/errors"
)

const (
	stateFile      = "state.json"
	filePermission = 0644
	dirPermission  = 0755
)

// JSONBackend implements Backend with a single JSON object on disk mapping
// keys to serialized values. The file is read once and rewritten atomically
// on every change.
type JSONBackend struct {
	basePath string
	logger   *slog.Logger

	mu     sync.Mutex
	values map[string]string // nil until loaded
}

// NewJSONBackend creates a new JSON-file backend rooted at basePath
func NewJSONBackend(basePath string, logger *slog.Logger) *JSONBackend {
	return &JSONBackend{
		basePath: basePath,
		logger:   logger,
	}
}

// Path returns the location of the state file
func (b *JSONBackend) Path() string {
	return filepath.Join(b.basePath, stateFile)
}

// Get returns the value stored under key
func (b *JSONBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(); err != nil {
		return "", false, err
	}
	value, ok := b.values[key]
	return value, ok, nil
}

// Set stores value under key and flushes the state file
func (b *JSONBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(); err != nil {
		return err
	}
	prev, had := b.values[key]
	b.values[key] = value
	if err := b.flush(); err != nil {
		// keep memory consistent with disk
		if had {
			b.values[key] = prev
		} else {
			delete(b.values, key)
		}
		return err
	}

	b.logger.Debug("stored key", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (b *JSONBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(); err != nil {
		return err
	}
	prev, had := b.values[key]
	if !had {
		return nil
	}
	delete(b.values, key)
	if err := b.flush(); err != nil {
		b.values[key] = prev
		return err
	}

	b.logger.Debug("deleted key", slog.String("key", key))
	return nil
}

// load reads the state file on first use. Caller holds b.mu.
func (b *JSONBackend) load() error {
	if b.values != nil {
		return nil
	}

	path := b.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, start empty
			b.values = make(map[string]string)
			return nil
		}
		return &apperrors.FileError{Op: "read", Path: path, Err: err}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode %s: %w: %v", path, apperrors.ErrCorruptState, err)
	}
	b.values = values

	b.logger.Debug("loaded state", slog.String("path", path), slog.Int("keys", len(values)))
	return nil
}

// flush writes the whole map to disk. Caller holds b.mu.
func (b *JSONBackend) flush() error {
	if err := os.MkdirAll(b.basePath, dirPermission); err != nil {
		return &apperrors.FileError{Op: "mkdir", Path: b.basePath, Err: err}
	}
	data, err := json.MarshalIndent(b.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	path := b.Path()
	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return &apperrors.FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	// Clean up temp file on any failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
