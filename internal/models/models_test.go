package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestTaskPatchApply(t *testing.T) {
	due := created.Add(48 * time.Hour)
	task := NewTask("t1", TaskDraft{
		Title:    "Write report",
		Tags:     []string{"work"},
		Priority: PriorityP2,
		Status:   StatusTodo,
		DueDate:  &due,
	}, created)

	status := StatusInProgress
	tags := []string{"work", "q2"}
	TaskPatch{Status: &status, Tags: &tags}.Apply(&task)

	want := Task{
		ID:        "t1",
		Title:     "Write report",
		Tags:      []string{"work", "q2"},
		Priority:  PriorityP2,
		Status:    StatusInProgress,
		DueDate:   &due,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}

	tags[0] = "mutated"
	assert.Equal(t, "work", task.Tags[0], "patch tags are copied")

	TaskPatch{ClearDueDate: true, DueDate: &due}.Apply(&task)
	assert.Nil(t, task.DueDate, "clear wins over a new value")
}

func TestTaskCloneDoesNotAlias(t *testing.T) {
	due := created
	rec := true
	orig := NewTask("t1", TaskDraft{Tags: []string{"a"}, DueDate: &due, IsRecurring: &rec}, created)
	c := orig.Clone()

	c.Tags[0] = "b"
	*c.DueDate = c.DueDate.Add(time.Hour)
	*c.IsRecurring = false

	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, created, *orig.DueDate)
	assert.True(t, orig.Recurring())
}

func TestNewRecordsAlwaysHaveTags(t *testing.T) {
	assert.NotNil(t, NewTask("a", TaskDraft{}, created).Tags)
	assert.NotNil(t, NewEvent("b", EventDraft{}, created).Tags)
	assert.NotNil(t, NewNote("c", NoteDraft{}, created).Tags)
}

func TestEventPatchLocation(t *testing.T) {
	office := "Office"
	e := NewEvent("e1", EventDraft{Title: "Standup", Location: &office}, created)
	assert.Equal(t, "Office", e.LocationOrEmpty())

	home := "Home"
	EventPatch{Location: &home}.Apply(&e)
	assert.Equal(t, "Home", e.LocationOrEmpty())

	EventPatch{ClearLocation: true}.Apply(&e)
	assert.Nil(t, e.Location)
	assert.Equal(t, "", e.LocationOrEmpty())
}

func TestNotePatchApply(t *testing.T) {
	n := NewNote("n1", NoteDraft{Title: "Ideas", Content: "one"}, created)
	pinned := true
	content := "one\ntwo"
	NotePatch{IsPinned: &pinned, Content: &content}.Apply(&n)

	assert.Equal(t, "Ideas", n.Title)
	assert.Equal(t, "one\ntwo", n.Content)
	assert.True(t, n.IsPinned)
}

func TestSettingsPatchAndValidate(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	dark := ThemeDark
	sunday := 0
	SettingsPatch{Theme: &dark, WeekStartsOn: &sunday}.Apply(&s)
	assert.Equal(t, Settings{
		Theme:        ThemeDark,
		StartPage:    StartPageDashboard,
		WeekStartsOn: 0,
		TimeFormat:   TimeFormat24,
	}, s)
	require.NoError(t, s.Validate())

	tests := []struct {
		name string
		edit func(*Settings)
	}{
		{"theme", func(s *Settings) { s.Theme = "neon" }},
		{"start page", func(s *Settings) { s.StartPage = "calendar" }},
		{"week start", func(s *Settings) { s.WeekStartsOn = 3 }},
		{"time format", func(s *Settings) { s.TimeFormat = "13" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := DefaultSettings()
			tt.edit(&bad)
			assert.Error(t, bad.Validate())
		})
	}
}

func TestMatches(t *testing.T) {
	loc := "Room 4B"
	e := Event{Title: "Sync", Location: &loc}
	assert.True(t, e.Matches("4b"))
	assert.False(t, Event{Title: "Sync"}.Matches("4b"))

	task := Task{Title: "Buy milk", Tags: []string{"Errands"}}
	assert.True(t, task.Matches("errand"))
	assert.True(t, task.Matches(""))
	assert.False(t, task.Matches("bread"))

	assert.True(t, HasAnyTag([]string{"a", "b"}, []string{"c", "b"}))
	assert.False(t, HasAnyTag([]string{"a"}, []string{"A"}))
}
