package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func snapshotSlots(t *testing.T, medium db.Medium) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, key := range db.SlotKeys() {
		v, ok, err := medium.Get(context.Background(), key)
		require.NoError(t, err)
		if ok {
			out[key] = v
		}
	}
	return out
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestStore(t, db.NewMemory())
	seedSearch(src)
	src.UpdateSettings(models.SettingsPatch{TimeFormat: ptr(models.TimeFormat12)})

	backup := src.Export()
	assert.Equal(t, models.BackupVersion, backup.Version)
	assert.False(t, backup.ExportedAt.IsZero())

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, backup))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"tasks", "events", "notes", "settings", "exportedAt", "version"} {
		assert.Contains(t, doc, key)
	}

	dst := db.NewMemory()
	require.NoError(t, Import(context.Background(), dst, &buf))

	restored := New(dst)
	if diff := cmp.Diff(src.Search(""), restored.Search("")); diff != "" {
		t.Fatalf("restored data differs (-src +restored):\n%s", diff)
	}
	assert.Equal(t, src.Settings(), restored.Settings())
}

func TestImportRejectsIncompleteDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing notes", `{"tasks":[],"events":[],"settings":{}}`},
		{"missing settings", `{"tasks":[],"events":[],"notes":[]}`},
		{"null section", `{"tasks":null,"events":[],"notes":[],"settings":{}}`},
		{"wrong shape", `{"tasks":{},"events":[],"notes":[],"settings":{}}`},
		{"not json", `tasks, events, notes, settings`},
		{"array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medium := db.NewMemory()
			s, _ := newTestStore(t, medium)
			s.AddTask(models.TaskDraft{Title: "existing"})
			s.UpdateSettings(models.SettingsPatch{Theme: ptr(models.ThemeDark)})
			before := snapshotSlots(t, medium)

			err := Import(context.Background(), medium, strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidBackup)
			assert.Equal(t, before, snapshotSlots(t, medium))
		})
	}
}

func TestImportAcceptsCommentsAndPartialSettings(t *testing.T) {
	doc := `{
		// exported by hand
		"tasks": [{"id": "t1", "title": "From backup", "tags": ["b"], "priority": "P1", "status": "done"},],
		"events": [],
		"notes": [],
		"settings": {"focusMode": true},
	}`
	medium := db.NewMemory()
	require.NoError(t, Import(context.Background(), medium, strings.NewReader(doc)))

	s := New(medium)
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "From backup", s.Tasks()[0].Title)

	want := models.DefaultSettings()
	want.FocusMode = true
	assert.Equal(t, want, s.Settings())
}

func TestImportDoesNotTouchLiveStore(t *testing.T) {
	medium := db.NewMemory()
	s, _ := newTestStore(t, medium)
	s.AddNote(models.NoteDraft{Title: "live"})

	doc := `{"tasks":[],"events":[],"notes":[],"settings":{}}`
	require.NoError(t, Import(context.Background(), medium, strings.NewReader(doc)))

	assert.Len(t, s.Notes(), 1)
	assert.Empty(t, New(medium).Notes())
}

func TestResetClearsEverySlot(t *testing.T) {
	medium := db.NewMemory()
	s, _ := newTestStore(t, medium)
	seedSearch(s)
	s.UpdateSettings(models.SettingsPatch{Theme: ptr(models.ThemeLight)})

	require.NoError(t, Reset(context.Background(), medium))
	assert.Empty(t, snapshotSlots(t, medium))

	// The running store keeps its data until the next load
	assert.NotEmpty(t, s.Tasks())

	fresh := New(medium)
	assert.Empty(t, fresh.Tasks())
	assert.Empty(t, fresh.Events())
	assert.Empty(t, fresh.Notes())
	assert.Equal(t, models.DefaultSettings(), fresh.Settings())
}
