package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

// Export snapshots the in-memory state
func (s *Store) Export() models.Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Backup{
		Tasks:      cloneTasks(s.tasks),
		Events:     cloneEvents(s.events),
		Notes:      cloneNotes(s.notes),
		Settings:   s.settings,
		ExportedAt: s.now(),
		Version:    models.BackupVersion,
	}
}

// WriteBackup writes b as indented JSON
func WriteBackup(w io.Writer, b models.Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// backupSections is the minimum shape an import must have
type backupSections struct {
	Tasks    json.RawMessage `json:"tasks" validate:"required"`
	Events   json.RawMessage `json:"events" validate:"required"`
	Notes    json.RawMessage `json:"notes" validate:"required"`
	Settings json.RawMessage `json:"settings" validate:"required"`
}

var validate = validator.New()

// Import replaces all four persisted slots with the contents of a backup
// document. The document is rejected with ErrInvalidBackup, and nothing is
// written, unless tasks, events, notes and settings are all present and
// well formed. Comments and trailing commas are tolerated.
//
// Import bypasses any live Store; the data shows up on the next load.
func Import(ctx context.Context, medium db.Medium, r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	slots, err := parseBackup(raw)
	if err != nil {
		return err
	}

	var errs []error
	for _, key := range db.SlotKeys() {
		if err := medium.Set(ctx, key, slots[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// parseBackup validates a document and returns the serialized value for
// every slot key
func parseBackup(raw []byte) (map[string]string, error) {
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	var sections backupSections
	if err := json.Unmarshal(standard, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := validate.Struct(sections); err != nil {
		return nil, fmt.Errorf("%w: missing section: %v", ErrInvalidBackup, err)
	}

	var (
		tasks    []models.Task
		events   []models.Event
		notes    []models.Note
		settings = models.DefaultSettings()
	)
	parts := []struct {
		name string
		raw  json.RawMessage
		dst  any
	}{
		{"tasks", sections.Tasks, &tasks},
		{"events", sections.Events, &events},
		{"notes", sections.Notes, &notes},
		{"settings", sections.Settings, &settings},
	}
	for _, p := range parts {
		if bytes.Equal(bytes.TrimSpace(p.raw), []byte("null")) {
			return nil, fmt.Errorf("%w: %s is null", ErrInvalidBackup, p.name)
		}
		if err := json.Unmarshal(p.raw, p.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, p.name, err)
		}
	}

	out := make(map[string]string, 4)
	for key, v := range map[string]any{
		db.KeyTasks:    nonNil(tasks),
		db.KeyEvents:   nonNil(events),
		db.KeyNotes:    nonNil(notes),
		db.KeySettings: settings,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		out[key] = string(data)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Reset deletes all four persisted slots. It bypasses any live Store; the
// caller is responsible for asking the user first.
func Reset(ctx context.Context, medium db.Medium) error {
	var errs []error
	for _, key := range db.SlotKeys() {
		if err := medium.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
