package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
)

// Step represents the current step in the wizard
type Step int

const (
	StepTitle Step = iota
	StepDescription
	StepTags
	StepPriority
	StepDueDate
	StepSave
)

var stepLabels = []string{"Title", "Description", "Tags", "Priority", "Due Date", "Save"}

// AddTaskModel represents the TUI model for adding and editing tasks
type AddTaskModel struct {
	store TaskSaver
	opts  Options

	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int

	// Task data
	title       string
	description string
	tags        []string
	priority    string
	dueDate     string

	// Pre-filled data from flags, parsing or the task being edited
	prefilled map[string]string

	// Edit mode
	isEditMode bool
	editing    models.Task

	// State
	err           error
	completed     bool
	cancelled     bool
	validationErr string
	saved         *models.Task

	// Save confirmation modal
	showSaveModal   bool
	saveModalChoice bool // true for Yes, false for No
}

// NewAddTaskModel creates a new add task TUI model
func NewAddTaskModel(s TaskSaver, prefilled map[string]string, opts Options) AddTaskModel {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	inputs := make([]textinput.Model, StepSave)

	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		if opts.FocusMode {
			inputs[i].Cursor.SetMode(cursor.CursorStatic)
		}
	}

	inputs[StepTitle].Placeholder = "Enter task title... (required)"
	inputs[StepTitle].CharLimit = 200
	inputs[StepTitle].Focus()

	inputs[StepDescription].Placeholder = "What needs doing? (Enter to skip)"
	inputs[StepDescription].CharLimit = 500

	inputs[StepTags].Placeholder = "Add tags, comma-separated (Enter to skip)"
	inputs[StepTags].CharLimit = 100

	inputs[StepPriority].Placeholder = "P1/P2/P3 or high/medium/low (Enter for P2)"
	inputs[StepPriority].CharLimit = 10

	inputs[StepDueDate].Placeholder = "today, tomorrow, dd/mm/yyyy, 3 days, 2 weeks (Enter to skip)"
	inputs[StepDueDate].CharLimit = 50

	m := AddTaskModel{
		store:       s,
		opts:        opts,
		currentStep: StepTitle,
		inputs:      inputs,
		prefilled:   prefilled,
		tags:        []string{},
	}

	if title, ok := prefilled["title"]; ok {
		m.inputs[StepTitle].SetValue(title)
		m.title = title
	}
	if desc, ok := prefilled["description"]; ok {
		m.inputs[StepDescription].SetValue(desc)
		m.description = desc
	}
	if tags, ok := prefilled["tags"]; ok {
		m.tags = parser.SplitTags(tags)
	}
	if priority, ok := prefilled["priority"]; ok {
		m.inputs[StepPriority].SetValue(priority)
		m.priority = priority
	}
	if dueDate, ok := prefilled["due_date"]; ok {
		m.inputs[StepDueDate].SetValue(dueDate)
		m.dueDate = dueDate
	}

	return m
}

// NewEditTaskModel creates an edit task TUI model with existing task data
func NewEditTaskModel(s TaskSaver, task models.Task, opts Options) AddTaskModel {
	prefilled := map[string]string{
		"title":       task.Title,
		"description": task.Description,
		"tags":        strings.Join(task.Tags, ", "),
		"priority":    string(task.Priority),
	}
	if task.DueDate != nil {
		prefilled["due_date"] = task.DueDate.In(time.Local).Format("02/01/2006")
	}

	m := NewAddTaskModel(s, prefilled, opts)
	m.isEditMode = true
	m.editing = task
	return m
}

// Init initializes the model
func (m AddTaskModel) Init() tea.Cmd {
	if m.opts.FocusMode {
		return nil
	}
	return textinput.Blink
}

// Update handles messages
func (m AddTaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		maxInputWidth := (m.width * 2 / 3) - 10
		if maxInputWidth < 30 {
			maxInputWidth = 30
		}
		if maxInputWidth > 80 {
			maxInputWidth = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = maxInputWidth
		}
		return m, nil

	case tea.KeyMsg:
		if m.showSaveModal {
			switch msg.String() {
			case "left", "right":
				m.saveModalChoice = !m.saveModalChoice
				return m, nil
			case "y", "Y":
				m.saveModalChoice = true
				return m.handleSaveChoice()
			case "n", "N":
				m.saveModalChoice = false
				return m.handleSaveChoice()
			case "enter":
				return m.handleSaveChoice()
			case "esc":
				m.showSaveModal = false
				return m, nil
			case "ctrl+c":
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "esc":
			if m.currentStep == StepSave {
				return m.prevStep()
			}
			if !m.hasChanges() {
				m.cancelled = true
				return m, tea.Quit
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			if m.currentStep == StepTitle && strings.TrimSpace(m.title) == "" {
				m.validationErr = "Task title is required"
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()
		}
	}

	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
		m.updateCurrentField()
	}
	return m, cmd
}

// View renders the TUI
func (m AddTaskModel) View() string {
	if m.cancelled || m.completed {
		return ""
	}

	if m.width < 85 {
		return m.renderSmallLayout()
	}

	rightWidth := 50
	leftWidth := m.width - rightWidth - 4

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1)

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.renderWizard()),
		" ",
		rightStyle.Render(m.renderPreview(rightWidth)),
	)

	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return mainView
}

// renderWizard renders the step-by-step wizard
func (m AddTaskModel) renderWizard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		MarginBottom(1)

	titleText := "Create New Task"
	if m.isEditMode {
		titleText = fmt.Sprintf("Edit Task %s", shortID(m.editing.ID))
	}
	b.WriteString(titleStyle.Render(titleText))
	b.WriteString("\n\n")

	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	skipped := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	for i, label := range stepLabels {
		step := Step(i)
		hasValue := m.stepHasValue(step)
		if step == StepSave {
			b.WriteString("\n")
		}

		switch {
		case step == m.currentStep:
			b.WriteString(current.Render("> " + label))
		case m.isEditMode && hasValue:
			b.WriteString(done.Render("✓ " + label))
		case step < m.currentStep && hasValue:
			b.WriteString(done.Render("✓ " + label))
		case step < m.currentStep:
			b.WriteString(skipped.Render("  " + label))
		default:
			b.WriteString(future.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.currentStep {
	case StepTitle:
		b.WriteString("Task Title\n")
	case StepDescription:
		b.WriteString("Description\n")
	case StepTags:
		b.WriteString("Tags\n")
		if len(m.tags) > 0 {
			b.WriteString(fmt.Sprintf("Added: %s\n", strings.Join(m.tags, ", ")))
		}
	case StepPriority:
		b.WriteString("Priority\n")
	case StepDueDate:
		b.WriteString("Due Date\n")
	case StepSave:
		b.WriteString("Save Task\n")
		b.WriteString("Press Enter to save task")
	}
	if m.currentStep < StepSave {
		b.WriteString(m.inputs[m.currentStep].View())
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.validationErr))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"))

	return b.String()
}

// stepHasValue checks if a step has been filled with a value (not skipped)
func (m AddTaskModel) stepHasValue(step Step) bool {
	switch step {
	case StepTitle:
		return strings.TrimSpace(m.title) != ""
	case StepDescription:
		return strings.TrimSpace(m.description) != ""
	case StepTags:
		return len(m.tags) > 0
	case StepPriority:
		return strings.TrimSpace(m.priority) != ""
	case StepDueDate:
		return strings.TrimSpace(m.dueDate) != ""
	default:
		return false
	}
}

// hasChanges reports whether leaving now would lose anything
func (m AddTaskModel) hasChanges() bool {
	if m.isEditMode {
		return strings.TrimSpace(m.title) != strings.TrimSpace(m.prefilled["title"]) ||
			strings.TrimSpace(m.description) != strings.TrimSpace(m.prefilled["description"]) ||
			strings.TrimSpace(m.priority) != strings.TrimSpace(m.prefilled["priority"]) ||
			strings.TrimSpace(m.dueDate) != strings.TrimSpace(m.prefilled["due_date"]) ||
			strings.Join(m.tags, ", ") != m.prefilled["tags"]
	}
	return strings.TrimSpace(m.title) != "" ||
		strings.TrimSpace(m.description) != "" ||
		len(m.tags) > 0 ||
		strings.TrimSpace(m.priority) != "" ||
		strings.TrimSpace(m.dueDate) != ""
}

// renderPreview renders the live task card
func (m AddTaskModel) renderPreview(width int) string {
	var card strings.Builder

	title := m.title
	if strings.TrimSpace(title) == "" {
		title = "Untitled Task"
	}
	titleBox := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Center).
		Width(width - 10)
	card.WriteString(titleBox.Render(title))
	card.WriteString("\n")

	status := models.StatusTodo
	if m.isEditMode {
		status = m.editing.Status
	}
	card.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPlaceholder)).
		Bold(true).
		Render("● " + string(status)))
	card.WriteString("\n\n")

	if m.description != "" {
		card.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render(m.description))
		card.WriteString("\n")
	}
	if len(m.tags) > 0 {
		tagStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)
		var styled []string
		for _, tag := range m.tags {
			styled = append(styled, tagStyle.Render("#"+tag))
		}
		card.WriteString("Tags: " + strings.Join(styled, " ") + "\n")
	}
	if p, err := parser.NormalizePriority(m.priority); err == nil {
		card.WriteString("Priority: " + lipgloss.NewStyle().
			Foreground(lipgloss.Color(priorityColor(string(p)))).
			Bold(true).
			Render(string(p)) + "\n")
	}
	if m.dueDate != "" {
		if due, err := parser.ParseDueDate(m.dueDate, m.opts.Now); err == nil && due != nil {
			card.WriteString("Due: " + parser.FormatDueDate(due, m.opts.Now) + "\n")
		} else {
			card.WriteString("Due: " + m.dueDate + "\n")
		}
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width - 4).
		Padding(1)
	return cardStyle.Render(card.String())
}

// renderSmallPreview renders a compact preview for small terminals
func (m AddTaskModel) renderSmallPreview() string {
	var b strings.Builder
	b.WriteString("=== PREVIEW ===\n")
	if m.title != "" {
		b.WriteString(m.title + "\n")
	}
	if len(m.tags) > 0 {
		b.WriteString("#" + strings.Join(m.tags, " #") + "\n")
	}
	if m.priority != "" {
		b.WriteString(m.priority + "\n")
	}
	if m.dueDate != "" {
		b.WriteString("due " + m.dueDate + "\n")
	}
	return b.String()
}

// renderSmallLayout renders the whole TUI for narrow terminals
func (m AddTaskModel) renderSmallLayout() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return style.Render(m.renderWizard() + "\n" + m.renderSmallPreview())
}

// handleEnter processes the Enter key
func (m AddTaskModel) handleEnter() (AddTaskModel, tea.Cmd) {
	m.validationErr = ""

	switch m.currentStep {
	case StepTitle:
		if strings.TrimSpace(m.title) == "" {
			m.validationErr = "Task title is required"
			return m, nil
		}
		return m.nextStep()

	case StepDescription:
		return m.nextStep()

	case StepTags:
		current := strings.TrimSpace(m.inputs[StepTags].Value())
		if current == "" {
			return m.nextStep()
		}
		// Add the tags and clear the input for more
		for _, tag := range parser.SplitTags(strings.ReplaceAll(current, "#", "")) {
			if !containsTag(m.tags, tag) {
				m.tags = append(m.tags, tag)
			}
		}
		m.inputs[StepTags].SetValue("")
		m.inputs[StepTags].Placeholder = fmt.Sprintf("Add another tag (%d added so far, Enter to finish)", len(m.tags))
		return m, nil

	case StepPriority:
		input := strings.TrimSpace(m.inputs[StepPriority].Value())
		if input != "" {
			if _, err := parser.NormalizePriority(input); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
		}
		m.priority = input
		return m.nextStep()

	case StepDueDate:
		input := strings.TrimSpace(m.inputs[StepDueDate].Value())
		if input != "" {
			if _, err := parser.ParseDueDate(input, m.opts.Now); err != nil {
				m.validationErr = "Invalid due date: " + err.Error()
				return m, nil
			}
		}
		m.dueDate = input
		return m.nextStep()

	case StepSave:
		return m.saveTask()
	}

	return m, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// nextStep moves to the next step
func (m AddTaskModel) nextStep() (AddTaskModel, tea.Cmd) {
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
		m.currentStep++
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Focus()
		}
	}
	return m, m.blink()
}

// prevStep moves to the previous step
func (m AddTaskModel) prevStep() (AddTaskModel, tea.Cmd) {
	if m.currentStep > StepTitle {
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Blur()
		}
		m.currentStep--
		m.inputs[m.currentStep].Focus()
	}
	return m, m.blink()
}

func (m AddTaskModel) blink() tea.Cmd {
	if m.opts.FocusMode {
		return nil
	}
	return textinput.Blink
}

// updateCurrentField mirrors free-text inputs into the model. Tags and
// priority are committed on Enter so they can be validated.
func (m *AddTaskModel) updateCurrentField() {
	switch m.currentStep {
	case StepTitle:
		m.title = m.inputs[StepTitle].Value()
	case StepDescription:
		m.description = m.inputs[StepDescription].Value()
	case StepDueDate:
		m.dueDate = m.inputs[StepDueDate].Value()
	}
}

// saveTask writes the task through the store
func (m AddTaskModel) saveTask() (AddTaskModel, tea.Cmd) {
	if strings.TrimSpace(m.title) == "" {
		m.validationErr = "Task title is required"
		m.currentStep = StepTitle
		m.inputs[StepTitle].Focus()
		return m, nil
	}

	var priority models.Priority
	if strings.TrimSpace(m.priority) != "" {
		p, err := parser.NormalizePriority(m.priority)
		if err != nil {
			m.err = err
			return m, nil
		}
		priority = p
	}

	dueUnchanged := m.isEditMode && strings.TrimSpace(m.dueDate) == strings.TrimSpace(m.prefilled["due_date"])
	var dueDate *time.Time
	if m.dueDate != "" && !dueUnchanged {
		due, err := parser.ParseDueDate(m.dueDate, m.opts.Now)
		if err != nil {
			m.err = fmt.Errorf("invalid due date: %w", err)
			return m, nil
		}
		dueDate = due
	}

	title := strings.TrimSpace(m.title)
	tags := append([]string{}, m.tags...)

	if m.isEditMode {
		patch := models.TaskPatch{
			Title:       &title,
			Description: &m.description,
			Tags:        &tags,
		}
		if priority != "" {
			patch.Priority = &priority
		}
		switch {
		case dueUnchanged:
		case dueDate == nil:
			patch.ClearDueDate = true
		default:
			patch.DueDate = dueDate
		}

		task, ok := m.store.UpdateTask(m.editing.ID, patch)
		if !ok {
			m.err = fmt.Errorf("task %s no longer exists", shortID(m.editing.ID))
			return m, nil
		}
		m.saved = &task
	} else {
		if priority == "" {
			priority = models.PriorityP2
		}
		task := m.store.AddTask(models.TaskDraft{
			Title:       title,
			Description: m.description,
			Tags:        tags,
			Priority:    priority,
			Status:      models.StatusTodo,
			DueDate:     dueDate,
		})
		m.saved = &task
	}

	m.opts.logger().Debugw("task saved from wizard", "id", m.saved.ID, "edit", m.isEditMode)
	m.completed = true
	return m, tea.Quit
}

// handleSaveChoice handles the save confirmation modal response
func (m AddTaskModel) handleSaveChoice() (AddTaskModel, tea.Cmd) {
	m.showSaveModal = false
	if m.saveModalChoice {
		return m.saveTask()
	}
	m.cancelled = true
	return m, tea.Quit
}

// renderSaveModal renders the save confirmation modal
func (m AddTaskModel) renderSaveModal() string {
	var content strings.Builder
	content.WriteString("Save changes?\n\n")

	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "   ", noStyle.Render("No")))
	content.WriteString("\n\n")
	content.WriteString("← → or Y/N to choose, Enter to confirm\nEsc to go back")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
