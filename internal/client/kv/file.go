package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a Store keeping one file per key inside a directory. Writes go
// through a temp file and rename so a crash never leaves a half-written value.
type File struct {
	dir string
}

// NewFile creates the directory if needed and returns a file-backed store.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: create cache dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// keyPath maps a key to a file name. Path separators and dots are replaced
// so a key can never escape the store directory.
func (f *File) keyPath(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return filepath.Join(f.dir, r.Replace(key)+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(f.keyPath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv: read %q: %w", key, err)
	}
	return raw, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	path := f.keyPath(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv: delete %q: %w", key, err)
	}
	return nil
}
