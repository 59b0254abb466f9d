package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Files keeps each slot in its own JSON file. Writes replace the file
// atomically so a crash leaves either the old or the new contents.
type Files struct {
	dir string
}

// OpenFiles creates dir if needed and returns a file-per-slot medium
func OpenFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Files{dir: dir}, nil
}

func (f *Files) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *Files) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *Files) Set(_ context.Context, key, value string) error {
	if err := atomic.WriteFile(f.path(key), strings.NewReader(value)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (f *Files) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (f *Files) Close() error { return nil }
