package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func titles[T any](items []T, title func(T) string) []string {
	out := []string{}
	for _, item := range items {
		out = append(out, title(item))
	}
	return out
}

func taskTitle(t models.Task) string   { return t.Title }
func eventTitle(e models.Event) string { return e.Title }
func noteTitle(n models.Note) string   { return n.Title }

func seedSearch(s *Store) {
	s.AddTask(models.TaskDraft{Title: "Buy milk", Tags: []string{"Errand"}, Priority: models.PriorityP3, Status: models.StatusTodo})
	s.AddTask(models.TaskDraft{Title: "File taxes", Description: "before April", Tags: []string{}})
	s.AddEvent(models.EventDraft{Title: "Dentist", Location: ptr("Main Street Clinic"), Tags: []string{"health"}})
	s.AddEvent(models.EventDraft{Title: "Team sync", Description: "weekly errands review"})
	s.AddNote(models.NoteDraft{Title: "Groceries", Content: "milk, eggs", Tags: []string{"home"}})
	s.AddNote(models.NoteDraft{Title: "Ideas", Content: "# Markdown heading"})
}

func TestSearchIsCaseInsensitiveAndMatchesTags(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	seedSearch(s)

	res := s.Search("ERR")
	assert.Equal(t, []string{"Buy milk"}, titles(res.Tasks, taskTitle))
	assert.Equal(t, []string{"Team sync"}, titles(res.Events, eventTitle))
	assert.Empty(t, res.Notes)

	res = s.Search("milk")
	assert.Equal(t, []string{"Buy milk"}, titles(res.Tasks, taskTitle))
	assert.Equal(t, []string{"Groceries"}, titles(res.Notes, noteTitle))
}

func TestSearchFields(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	seedSearch(s)

	tests := []struct {
		name   string
		query  string
		tasks  []string
		events []string
		notes  []string
	}{
		{"task description", "april", []string{"File taxes"}, []string{}, []string{}},
		{"event location", "clinic", []string{}, []string{"Dentist"}, []string{}},
		{"event tag", "HEALTH", []string{}, []string{"Dentist"}, []string{}},
		{"note content", "# mark", []string{}, []string{}, []string{"Ideas"}},
		{"note tag", "hom", []string{}, []string{}, []string{"Groceries"}},
		{"no hit", "zebra", []string{}, []string{}, []string{}},
		{"empty matches all", "", []string{"Buy milk", "File taxes"}, []string{"Dentist", "Team sync"}, []string{"Groceries", "Ideas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Search(tt.query)
			assert.Equal(t, tt.tasks, titles(res.Tasks, taskTitle))
			assert.Equal(t, tt.events, titles(res.Events, eventTitle))
			assert.Equal(t, tt.notes, titles(res.Notes, noteTitle))
		})
	}
}

func TestSearchSurvivesReload(t *testing.T) {
	medium := db.NewMemory()
	s, _ := newTestStore(t, medium)
	seedSearch(s)

	groceries := s.Search("groceries").Notes[0]
	s.UpdateNote(groceries.ID, models.NotePatch{Tags: ptr([]string{"Shopping"})})
	taxes := s.Search("taxes").Tasks[0]
	s.DeleteTask(taxes.ID)
	s.UpdateSettings(models.SettingsPatch{WeekStartsOn: ptr(0)})

	reloaded := New(medium)
	for _, q := range []string{"", "milk", "ERR", "shop", "clinic", "taxes", "e"} {
		if diff := cmp.Diff(s.Search(q), reloaded.Search(q)); diff != "" {
			t.Errorf("Search(%q) changed after reload (-before +after):\n%s", q, diff)
		}
	}
	assert.Equal(t, s.Settings(), reloaded.Settings())
}

func TestHydrationFallsBackPerSlot(t *testing.T) {
	ctx := context.Background()
	medium := db.NewMemory()
	require.NoError(t, medium.Set(ctx, db.KeyTasks, `[{"id":"t1","title":"kept","tags":["x"],"priority":"P2","status":"todo"}]`))
	require.NoError(t, medium.Set(ctx, db.KeyEvents, `{not json`))
	require.NoError(t, medium.Set(ctx, db.KeyNotes, `null`))
	require.NoError(t, medium.Set(ctx, db.KeySettings, `{"theme":"dark"}`))

	s := New(medium)

	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "kept", s.Tasks()[0].Title)
	assert.Empty(t, s.Events())
	assert.Empty(t, s.Notes())

	want := models.DefaultSettings()
	want.Theme = models.ThemeDark
	assert.Equal(t, want, s.Settings())
}

func TestHydrationSurvivesReadErrors(t *testing.T) {
	medium := newFailingMedium()
	seed, _ := newTestStore(t, medium)
	seed.AddNote(models.NoteDraft{Title: "visible"})
	seed.UpdateSettings(models.SettingsPatch{Theme: ptr(models.ThemeLight)})

	medium.failGet[db.KeySettings] = true
	s := New(medium)

	assert.Len(t, s.Notes(), 1)
	assert.Equal(t, models.DefaultSettings(), s.Settings())
}

func TestCorruptSettingsUseDefaults(t *testing.T) {
	medium := db.NewMemory()
	require.NoError(t, medium.Set(context.Background(), db.KeySettings, `["nope"]`))

	s := New(medium)
	assert.Equal(t, models.DefaultSettings(), s.Settings())
}
