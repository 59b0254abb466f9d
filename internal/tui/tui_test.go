package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/autosave"
	"github.com/balkashynov/daybook/internal/models"
)

var testNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.Local)

type fakeStore struct {
	added       []models.TaskDraft
	taskPatches []models.TaskPatch
	task        models.Task

	notePatches []models.NotePatch
	note        models.Note
	missing     bool
}

func (f *fakeStore) AddTask(d models.TaskDraft) models.Task {
	f.added = append(f.added, d)
	return models.NewTask("task-1", d, testNow)
}

func (f *fakeStore) UpdateTask(id string, patch models.TaskPatch) (models.Task, bool) {
	if f.missing {
		return models.Task{}, false
	}
	f.taskPatches = append(f.taskPatches, patch)
	t := f.task.Clone()
	patch.Apply(&t)
	return t, true
}

func (f *fakeStore) UpdateNote(id string, patch models.NotePatch) (models.Note, bool) {
	if f.missing {
		return models.Note{}, false
	}
	f.notePatches = append(f.notePatches, patch)
	patch.Apply(&f.note)
	return f.note.Clone(), true
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func pressWizard(t *testing.T, m AddTaskModel, msgs ...tea.Msg) AddTaskModel {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	out, ok := model.(AddTaskModel)
	require.True(t, ok)
	return out
}

func TestWizardCreatesTask(t *testing.T) {
	fs := &fakeStore{}
	m := NewAddTaskModel(fs, nil, Options{Now: testNow})

	m = pressWizard(t, m,
		typeText("Buy milk"), enter,
		typeText("semi-skimmed"), enter,
		typeText("home, errands"), enter, enter,
		typeText("high"), enter,
		typeText("tomorrow"), enter,
	)
	require.Equal(t, StepSave, m.currentStep)

	m = pressWizard(t, m, enter)
	require.True(t, m.completed)
	require.Len(t, fs.added, 1)

	d := fs.added[0]
	assert.Equal(t, "Buy milk", d.Title)
	assert.Equal(t, "semi-skimmed", d.Description)
	assert.Equal(t, []string{"home", "errands"}, d.Tags)
	assert.Equal(t, models.PriorityP1, d.Priority)
	assert.Equal(t, models.StatusTodo, d.Status)
	require.NotNil(t, d.DueDate)
	assert.Equal(t, 15, d.DueDate.Day())
	require.NotNil(t, m.saved)
	assert.Equal(t, "task-1", m.saved.ID)
}

func TestWizardDefaultsAndValidation(t *testing.T) {
	fs := &fakeStore{}
	m := NewAddTaskModel(fs, nil, Options{Now: testNow})

	m = pressWizard(t, m, enter)
	assert.Equal(t, StepTitle, m.currentStep)
	assert.NotEmpty(t, m.validationErr, "title is required")

	m = pressWizard(t, m, typeText("Plan week"), enter, enter, enter, typeText("urgent"), enter)
	assert.Equal(t, StepPriority, m.currentStep)
	assert.Contains(t, m.validationErr, "invalid priority")

	m.inputs[StepPriority].SetValue("")
	m = pressWizard(t, m, enter, enter, enter)
	require.True(t, m.completed)
	require.Len(t, fs.added, 1)
	assert.Equal(t, models.PriorityP2, fs.added[0].Priority)
	assert.Nil(t, fs.added[0].DueDate)
}

func TestWizardEscWithoutChangesCancels(t *testing.T) {
	m := NewAddTaskModel(&fakeStore{}, nil, Options{Now: testNow})
	m = pressWizard(t, m, esc)
	assert.True(t, m.cancelled)
	assert.False(t, m.completed)
}

func TestWizardEscOffersSave(t *testing.T) {
	fs := &fakeStore{}
	m := NewAddTaskModel(fs, nil, Options{Now: testNow})
	m = pressWizard(t, m, typeText("Call mum"), esc)
	require.True(t, m.showSaveModal)

	m = pressWizard(t, m, typeText("n"))
	assert.True(t, m.cancelled)
	assert.Empty(t, fs.added)

	m = NewAddTaskModel(fs, nil, Options{Now: testNow})
	m = pressWizard(t, m, typeText("Call mum"), esc, typeText("y"))
	assert.True(t, m.completed)
	require.Len(t, fs.added, 1)
	assert.Equal(t, "Call mum", fs.added[0].Title)
}

func TestWizardPrefilledFromParser(t *testing.T) {
	m := NewAddTaskModel(&fakeStore{}, map[string]string{
		"title":    "Ship release",
		"tags":     "work, go",
		"priority": "P3",
		"due_date": "nonsense",
	}, Options{Now: testNow})

	assert.Equal(t, "Ship release", m.title)
	assert.Equal(t, []string{"work", "go"}, m.tags)
	assert.True(t, m.hasChanges())
	assert.NotEmpty(t, m.View(), "renders without a window size")
}

func editable() models.Task {
	due := time.Date(2024, 3, 20, 23, 59, 59, 0, time.Local)
	return models.NewTask("abcdef123456", models.TaskDraft{
		Title:    "Write report",
		Tags:     []string{"work"},
		Priority: models.PriorityP1,
		Status:   models.StatusInProgress,
		DueDate:  &due,
	}, testNow)
}

func TestEditWizardKeepsUnchangedDueDate(t *testing.T) {
	task := editable()
	fs := &fakeStore{task: task}
	m := NewEditTaskModel(fs, task, Options{Now: testNow})
	assert.False(t, m.hasChanges())

	m = pressWizard(t, m, typeText("!"), enter, enter, enter, enter, enter, enter)
	require.True(t, m.completed)
	require.Len(t, fs.taskPatches, 1)

	p := fs.taskPatches[0]
	require.NotNil(t, p.Title)
	assert.Equal(t, "Write report!", *p.Title)
	assert.Nil(t, p.DueDate, "due date left alone")
	assert.False(t, p.ClearDueDate)
	require.NotNil(t, m.saved)
	assert.Equal(t, task.DueDate, m.saved.DueDate)
	assert.Equal(t, models.StatusInProgress, m.saved.Status)
}

func TestEditWizardClearsDueDate(t *testing.T) {
	task := editable()
	fs := &fakeStore{task: task}
	m := NewEditTaskModel(fs, task, Options{Now: testNow})

	m.currentStep = StepDueDate
	m.inputs[StepDueDate].SetValue("")
	m = pressWizard(t, m, enter, enter)
	require.True(t, m.completed)
	require.Len(t, fs.taskPatches, 1)
	assert.True(t, fs.taskPatches[0].ClearDueDate)
	assert.Nil(t, m.saved.DueDate)
}

func TestEditWizardReportsDeletedTask(t *testing.T) {
	task := editable()
	m := NewEditTaskModel(&fakeStore{missing: true}, task, Options{Now: testNow})
	m.currentStep = StepSave
	m = pressWizard(t, m, enter)
	assert.False(t, m.completed)
	assert.Error(t, m.err)
}

type sentMsgs struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *sentMsgs) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *sentMsgs) all() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

func pressEditor(t *testing.T, m NoteEditorModel, msgs ...tea.Msg) NoteEditorModel {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	out, ok := model.(NoteEditorModel)
	require.True(t, ok)
	return out
}

func TestNoteEditorAutosavesAfterDelay(t *testing.T) {
	note := models.NewNote("note-1", models.NoteDraft{Title: "Ideas", Content: "one"}, testNow)
	fs := &fakeStore{note: note}
	sent := &sentMsgs{}
	d := autosave.New(10 * time.Millisecond)
	defer d.Stop()

	m := NewNoteEditorModel(fs, note, d, sent.send, Options{})
	m = pressEditor(t, m, typeText(" two"), typeText(" three"))
	assert.Equal(t, "Editing...", m.status)
	assert.Empty(t, fs.notePatches, "nothing written while typing")

	require.Eventually(t, func() bool { return len(sent.all()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	require.Len(t, sent.all(), 1, "keystrokes coalesce into one save")

	m = pressEditor(t, m, sent.all()[0])
	require.Len(t, fs.notePatches, 1)
	assert.Equal(t, "one two three", m.note.Content)
	assert.Equal(t, "Saved", m.status)

	m = pressEditor(t, m, esc)
	assert.Len(t, fs.notePatches, 1, "no second write when nothing changed")
	assert.True(t, m.quitting)
}

func TestNoteEditorFlushesOnQuit(t *testing.T) {
	note := models.NewNote("note-1", models.NoteDraft{Title: "", Content: ""}, testNow)
	fs := &fakeStore{note: note}
	sent := &sentMsgs{}
	d := autosave.New(time.Hour)

	m := NewNoteEditorModel(fs, note, d, sent.send, Options{FocusMode: true})
	m = pressEditor(t, m, typeText("remember the milk"), esc)

	require.Len(t, fs.notePatches, 1)
	assert.Equal(t, UntitledNote, m.note.Title)
	assert.Equal(t, "remember the milk", m.note.Content)
	assert.False(t, d.Pending())
	assert.Empty(t, sent.all())
}

func TestNoteEditorSavesTagsAndTitle(t *testing.T) {
	note := models.NewNote("note-1", models.NoteDraft{Title: "Trip", Content: "pack"}, testNow)
	fs := &fakeStore{note: note}
	d := autosave.New(time.Hour)

	m := NewNoteEditorModel(fs, note, d, nil, Options{})
	m = pressEditor(t, m, tab, typeText(" to Rome"), tab, typeText("travel, italy"))
	m = pressEditor(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, fs.notePatches, 1)
	assert.Equal(t, "Trip to Rome", m.note.Title)
	assert.Equal(t, []string{"travel", "italy"}, m.note.Tags)
	assert.False(t, d.Pending(), "manual save cancels the pending autosave")
}

func TestNoteEditorRefusesEmptyNote(t *testing.T) {
	note := models.NewNote("note-1", models.NoteDraft{Title: "", Content: ""}, testNow)
	fs := &fakeStore{note: note}
	m := NewNoteEditorModel(fs, note, autosave.New(time.Hour), nil, Options{})

	m = pressEditor(t, m, tab, tab, typeText("tag"), esc)
	assert.Empty(t, fs.notePatches)
	assert.Contains(t, m.status, "Not saved")
}
