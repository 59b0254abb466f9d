// Package tui holds the interactive screens: the add/edit task wizard and
// the note editor.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/daybook/internal/autosave"
	"github.com/balkashynov/daybook/internal/logger"
	"github.com/balkashynov/daybook/internal/models"
)

// TaskSaver is the part of the store the wizard writes to
type TaskSaver interface {
	AddTask(d models.TaskDraft) models.Task
	UpdateTask(id string, patch models.TaskPatch) (models.Task, bool)
}

// NoteSaver is the part of the store the note editor writes to
type NoteSaver interface {
	UpdateNote(id string, patch models.NotePatch) (models.Note, bool)
}

// Options tune a TUI session
type Options struct {
	Now           time.Time
	FocusMode     bool // static cursor, no blinking
	AutosaveDelay time.Duration
	Log           *logger.Logger
}

func (o Options) logger() *logger.Logger {
	if o.Log == nil {
		return logger.Nop()
	}
	return o.Log
}

// RunAddTaskTUI starts the interactive add task wizard. It returns the
// saved task, or nil when the user cancelled.
func RunAddTaskTUI(s TaskSaver, prefilled map[string]string, opts Options) (*models.Task, error) {
	return runWizard(NewAddTaskModel(s, prefilled, opts))
}

// RunEditTaskTUI opens the wizard on an existing task
func RunEditTaskTUI(s TaskSaver, task models.Task, opts Options) (*models.Task, error) {
	return runWizard(NewEditTaskModel(s, task, opts))
}

func runWizard(model AddTaskModel) (*models.Task, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(AddTaskModel)
	if !ok || m.cancelled || !m.completed {
		return nil, nil
	}
	return m.saved, nil
}

// RunNoteEditor edits note until the user quits. Changes are saved after
// opts.AutosaveDelay of inactivity and once more on exit; the returned
// note is the last saved state.
func RunNoteEditor(s NoteSaver, note models.Note, opts Options) (models.Note, error) {
	var p *tea.Program
	debouncer := autosave.New(opts.AutosaveDelay)
	model := NewNoteEditorModel(s, note, debouncer, func(msg tea.Msg) { p.Send(msg) }, opts)

	p = tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	debouncer.Stop()
	if err != nil {
		return note, err
	}
	if m, ok := finalModel.(NoteEditorModel); ok {
		return m.note, m.err
	}
	return note, nil
}
