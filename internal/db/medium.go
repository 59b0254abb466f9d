package db

import (
	"context"
	"errors"
)

// Slot keys. Each holds one serialized collection.
const (
	KeyTasks    = "productivity-app-tasks"
	KeyEvents   = "productivity-app-events"
	KeyNotes    = "productivity-app-notes"
	KeySettings = "productivity-app-settings"
)

// SlotKeys returns the four slot keys in a fixed order
func SlotKeys() []string {
	return []string{KeyTasks, KeyEvents, KeyNotes, KeySettings}
}

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Medium is a string key-value store holding the persisted slots.
// Get reports ok=false for a missing key. Values are written wholesale.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
