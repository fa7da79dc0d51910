// Package local persists state records as JSON files in a directory.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const ext = ".json"

// Persister writes one file per key. Writes go through a temp file and an
// atomic rename, so a crash never leaves a half-written record.
type Persister struct {
	dir string
	mu  sync.Mutex
}

// New creates dir if needed.
func New(dir string) (*Persister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}
	return &Persister{dir: dir}, nil
}

func (p *Persister) Dir() string { return p.dir }

func (p *Persister) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid state key %q", key)
	}
	return filepath.Join(p.dir, key+ext), nil
}

func (p *Persister) Load(_ context.Context, key string, v any) (bool, error) {
	path, err := p.path(key)
	if err != nil {
		return false, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

func (p *Persister) Save(_ context.Context, key string, v any) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tmp, err := os.CreateTemp(p.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // no-op after a successful rename
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s record: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s record: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s record: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
