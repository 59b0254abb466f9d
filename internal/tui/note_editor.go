package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daybook/internal/autosave"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
)

// UntitledNote is the title given to notes saved without one
const UntitledNote = "Untitled"

type noteField int

const (
	fieldTitle noteField = iota
	fieldTags
	fieldContent
	fieldCount
)

// noteSnapshot is the editable state of a note at one instant
type noteSnapshot struct {
	title   string
	tags    string
	content string
}

// autosaveMsg is delivered when the debouncer fires
type autosaveMsg struct {
	snap noteSnapshot
}

// NoteEditorModel edits a single note and saves it in the background
type NoteEditorModel struct {
	store     NoteSaver
	opts      Options
	debouncer *autosave.Debouncer
	send      func(tea.Msg)

	title   textinput.Model
	tags    textinput.Model
	content textarea.Model
	focus   noteField

	note      models.Note
	lastSaved noteSnapshot
	status    string
	err       error
	quitting  bool

	width  int
	height int
}

// NewNoteEditorModel creates the editor. send delivers debounced saves
// back into the program; it is called from the debouncer's goroutine.
func NewNoteEditorModel(s NoteSaver, note models.Note, debouncer *autosave.Debouncer, send func(tea.Msg), opts Options) NoteEditorModel {
	title := textinput.New()
	title.Placeholder = UntitledNote
	title.CharLimit = 200
	title.Width = 60
	title.SetValue(note.Title)
	title.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	title.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	tags := textinput.New()
	tags.Placeholder = "tags, comma-separated"
	tags.CharLimit = 200
	tags.Width = 60
	tags.SetValue(strings.Join(note.Tags, ", "))
	tags.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	tags.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	content := textarea.New()
	content.Placeholder = "Start writing..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetWidth(80)
	content.SetHeight(15)
	content.SetValue(note.Content)

	if opts.FocusMode {
		title.Cursor.SetMode(cursor.CursorStatic)
		tags.Cursor.SetMode(cursor.CursorStatic)
		content.Cursor.SetMode(cursor.CursorStatic)
	}

	m := NoteEditorModel{
		store:     s,
		opts:      opts,
		debouncer: debouncer,
		send:      send,
		title:     title,
		tags:      tags,
		content:   content,
		note:      note,
		status:    "Saved",
	}
	m.lastSaved = m.snapshot()
	m.focusField(fieldContent)
	return m
}

// Init initializes the model
func (m NoteEditorModel) Init() tea.Cmd {
	if m.opts.FocusMode {
		return nil
	}
	return textarea.Blink
}

// Update handles messages
func (m NoteEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 6
		if w < 20 {
			w = 20
		}
		m.title.Width = w
		m.tags.Width = w
		m.content.SetWidth(w)
		if h := msg.Height - 10; h > 3 {
			m.content.SetHeight(h)
		}
		return m, nil

	case autosaveMsg:
		if !m.quitting {
			m.commit(msg.snap)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()
		case "ctrl+s":
			m.debouncer.Cancel()
			m.commit(m.snapshot())
			return m, nil
		case "tab":
			m.focusField((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab":
			m.focusField((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldTags:
		m.tags, cmd = m.tags.Update(msg)
	default:
		m.content, cmd = m.content.Update(msg)
	}

	if snap := m.snapshot(); snap != m.lastSaved {
		m.status = "Editing..."
		m.schedule(snap)
	}
	return m, cmd
}

// schedule arms the debouncer with snap
func (m NoteEditorModel) schedule(snap noteSnapshot) {
	send := m.send
	m.debouncer.Schedule(func() {
		if send != nil {
			send(autosaveMsg{snap: snap})
		}
	})
}

// quit cancels any pending save and writes the current text once
func (m NoteEditorModel) quit() (NoteEditorModel, tea.Cmd) {
	m.quitting = true
	m.debouncer.Stop()
	m.commit(m.snapshot())
	return m, tea.Quit
}

// commit writes snap to the store unless it is already saved or empty
func (m *NoteEditorModel) commit(snap noteSnapshot) {
	if snap == m.lastSaved {
		return
	}
	if strings.TrimSpace(snap.title) == "" && strings.TrimSpace(snap.content) == "" {
		m.status = "Not saved: a note needs a title or some content"
		return
	}

	title := strings.TrimSpace(snap.title)
	if title == "" {
		title = UntitledNote
	}
	content := snap.content
	tags := parser.SplitTags(snap.tags)

	updated, ok := m.store.UpdateNote(m.note.ID, models.NotePatch{
		Title:   &title,
		Content: &content,
		Tags:    &tags,
	})
	if !ok {
		m.err = fmt.Errorf("note %s no longer exists", shortID(m.note.ID))
		m.status = "Not saved: note was deleted"
		return
	}

	m.note = updated
	m.lastSaved = snap
	m.status = "Saved"
	m.opts.logger().Debugw("note autosaved", "id", updated.ID, "bytes", len(content))
}

func (m NoteEditorModel) snapshot() noteSnapshot {
	return noteSnapshot{
		title:   m.title.Value(),
		tags:    m.tags.Value(),
		content: m.content.Value(),
	}
}

func (m *NoteEditorModel) focusField(f noteField) {
	m.title.Blur()
	m.tags.Blur()
	m.content.Blur()
	m.focus = f
	switch f {
	case fieldTitle:
		m.title.Focus()
	case fieldTags:
		m.tags.Focus()
	default:
		m.content.Focus()
	}
}

// View renders the editor
func (m NoteEditorModel) View() string {
	if m.quitting {
		return ""
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	active := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	fieldLabel := func(f noteField, s string) string {
		if m.focus == f {
			return active.Render("> " + s)
		}
		return label.Render("  " + s)
	}

	var b strings.Builder
	b.WriteString(fieldLabel(fieldTitle, "Title") + "\n")
	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(fieldLabel(fieldTags, "Tags") + "\n")
	b.WriteString(m.tags.View() + "\n\n")
	b.WriteString(fieldLabel(fieldContent, "Content") + "\n")
	b.WriteString(m.content.View() + "\n\n")

	statusColor := ColorSuccess
	switch {
	case m.err != nil || strings.HasPrefix(m.status, "Not saved"):
		statusColor = ColorError
	case m.status != "Saved":
		statusColor = ColorWarning
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render(m.status))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("Tab: Next field | Ctrl+S: Save now | Esc: Save and quit"))

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)
	return frame.Render(b.String())
}
