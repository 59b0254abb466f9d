package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())

	created := s.AddTask(models.TaskDraft{
		Title:    "A",
		Tags:     []string{},
		Priority: models.PriorityP1,
		Status:   models.StatusTodo,
	})
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, "id-001", created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, models.PriorityP1, created.Priority)
	assert.Equal(t, models.StatusTodo, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	updated, ok := s.UpdateTask(created.ID, models.TaskPatch{Status: ptr(models.StatusDone)})
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "A", updated.Title)
	assert.Equal(t, models.PriorityP1, updated.Priority)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	assert.True(t, s.DeleteTask(created.ID))
	assert.Empty(t, s.Tasks())

	_, found := s.Task(created.ID)
	assert.False(t, found)
}

func TestUpdateAndDeleteUnknownIDAreNoOps(t *testing.T) {
	medium := newFailingMedium()
	s, _ := newTestStore(t, medium)
	task := s.AddTask(models.TaskDraft{Title: "keep"})
	require.True(t, s.DeleteTask(task.ID))
	writes := medium.sets

	_, ok := s.UpdateTask(task.ID, models.TaskPatch{Title: ptr("ghost")})
	assert.False(t, ok)
	assert.False(t, s.DeleteTask(task.ID))
	_, ok = s.UpdateEvent("missing", models.EventPatch{})
	assert.False(t, ok)
	assert.False(t, s.DeleteNote("missing"))

	assert.Equal(t, writes, medium.sets, "no-op calls must not write")
	assert.Empty(t, s.Tasks())
}

func TestUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	due := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	task := s.AddTask(models.TaskDraft{
		Title:       "Write report",
		Description: "quarterly",
		Tags:        []string{"work", "work"},
		Priority:    models.PriorityP2,
		Status:      models.StatusInProgress,
		DueDate:     &due,
	})

	updated, ok := s.UpdateTask(task.ID, models.TaskPatch{Description: ptr("")})
	require.True(t, ok)

	want := task
	want.Description = ""
	want.UpdatedAt = updated.UpdatedAt
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("task mismatch (-want +got):\n%s", diff)
	}

	cleared, ok := s.UpdateTask(task.ID, models.TaskPatch{ClearDueDate: true})
	require.True(t, ok)
	assert.Nil(t, cleared.DueDate)
}

func TestUpdatedAtNeverGoesBackwards(t *testing.T) {
	clock := newStepClock()
	s := New(db.NewMemory(), WithClock(clock.Now), WithIDGenerator(sequentialIDs("n")))
	note := s.AddNote(models.NoteDraft{Title: "n"})

	clock.step = -time.Hour
	updated, ok := s.UpdateNote(note.ID, models.NotePatch{Content: ptr("body")})
	require.True(t, ok)
	assert.Equal(t, note.UpdatedAt, updated.UpdatedAt)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	// A generator that repeats itself must not produce duplicates
	s := New(db.NewMemory(), WithIDGenerator(func() string { return "same" }))
	a := s.AddEvent(models.EventDraft{Title: "a"})
	b := s.AddEvent(models.EventDraft{Title: "b"})
	c := s.AddEvent(models.EventDraft{Title: "c"})

	ids := map[string]bool{a.ID: true, b.ID: true, c.ID: true}
	assert.Len(t, ids, 3)
	assert.Equal(t, "same", a.ID)
}

func TestReturnedRecordsDoNotAliasStore(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	tags := []string{"home"}
	task := s.AddTask(models.TaskDraft{Title: "t", Tags: tags})

	tags[0] = "mutated"
	task.Tags[0] = "mutated"
	listed := s.Tasks()
	listed[0].Tags[0] = "mutated"

	got, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"home"}, got.Tags)
}

func TestEventAndNoteLifecycle(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	// End before start is accepted as-is
	ev := s.AddEvent(models.EventDraft{
		Title:     "Standup",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
		Color:     "chartreuse",
		Location:  ptr("Room 4"),
	})
	assert.Equal(t, "chartreuse", ev.Color)

	moved, ok := s.UpdateEvent(ev.ID, models.EventPatch{ClearLocation: true})
	require.True(t, ok)
	assert.Nil(t, moved.Location)
	assert.Equal(t, start, moved.StartDate)

	note := s.AddNote(models.NoteDraft{Title: "", Content: "draft"})
	pinned, ok := s.UpdateNote(note.ID, models.NotePatch{IsPinned: ptr(true)})
	require.True(t, ok)
	assert.True(t, pinned.IsPinned)
	assert.Equal(t, "draft", pinned.Content)

	assert.True(t, s.DeleteEvent(ev.ID))
	assert.True(t, s.DeleteNote(note.ID))
	assert.Empty(t, s.Events())
	assert.Empty(t, s.Notes())
}

func TestDeleteDoesNotCascade(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	task := s.AddTask(models.TaskDraft{Title: "t", Tags: []string{"shared"}})
	s.AddNote(models.NoteDraft{Title: "n", Tags: []string{"shared"}})
	s.AddEvent(models.EventDraft{Title: "e", Tags: []string{"shared"}})

	s.DeleteTask(task.ID)
	assert.Len(t, s.Notes(), 1)
	assert.Len(t, s.Events(), 1)
}

func TestInsertionOrderIsKept(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())
	for _, title := range []string{"c", "a", "b"} {
		s.AddNote(models.NoteDraft{Title: title})
	}
	first := s.Notes()[0]
	s.UpdateNote(first.ID, models.NotePatch{Title: ptr("c2")})

	var titles []string
	for _, n := range s.Notes() {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"c2", "a", "b"}, titles)
}

func TestSettingsMergeIsAdditive(t *testing.T) {
	s, _ := newTestStore(t, db.NewMemory())

	s.UpdateSettings(models.SettingsPatch{Theme: ptr(models.ThemeDark)})
	got := s.UpdateSettings(models.SettingsPatch{FocusMode: ptr(true)})

	want := models.DefaultSettings()
	want.Theme = models.ThemeDark
	want.FocusMode = true
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Settings())
}

func TestFindResolvesPrefixes(t *testing.T) {
	s := New(db.NewMemory(), WithIDGenerator(sequentialIDs("ab")))
	first := s.AddTask(models.TaskDraft{Title: "one"})
	s.AddTask(models.TaskDraft{Title: "two"})

	got, err := s.FindTask("ab-001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.FindTask("ab-00")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = s.FindTask("zz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindNote("ab")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEveryMutationWritesWholeCollection(t *testing.T) {
	medium := db.NewMemory()
	s, _ := newTestStore(t, medium)
	s.AddTask(models.TaskDraft{Title: "one"})
	two := s.AddTask(models.TaskDraft{Title: "two"})
	s.UpdateTask(two.ID, models.TaskPatch{Status: ptr(models.StatusDone)})

	raw, ok, err := medium.Get(context.Background(), db.KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)

	var stored []models.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	if diff := cmp.Diff(s.Tasks(), stored); diff != "" {
		t.Fatalf("persisted tasks differ (-memory +stored):\n%s", diff)
	}

	_, ok, _ = medium.Get(context.Background(), db.KeyEvents)
	assert.False(t, ok, "untouched collections are not written")
}

func TestWriteFailureKeepsMemoryChange(t *testing.T) {
	medium := newFailingMedium()
	medium.failSet[db.KeyNotes] = true
	s, _ := newTestStore(t, medium)

	note := s.AddNote(models.NoteDraft{Title: "unsaved"})
	assert.ErrorIs(t, s.LastWriteError(), errDiskFull)
	assert.Len(t, s.Notes(), 1)

	_, ok := s.UpdateNote(note.ID, models.NotePatch{Title: ptr("still here")})
	assert.True(t, ok)

	s.AddTask(models.TaskDraft{Title: "saved"})
	assert.NoError(t, s.LastWriteError())

	reloaded := New(medium)
	assert.Empty(t, reloaded.Notes())
	assert.Len(t, reloaded.Tasks(), 1)
}
