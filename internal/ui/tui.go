// Package ui provides the full-screen terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cruceru-B/todolist/internal/task"
)

// Loader reads the persisted task list.
type Loader interface {
	Load() (task.List, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	taskPath string
	output   io.Writer
}

// WithTaskPath shows path in the footer.
func WithTaskPath(path string) TUIOption {
	return func(c *tuiConfig) {
		c.taskPath = path
	}
}

// WithOutput renders to w instead of stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI runs the interactive task list until the user quits or ctx is done.
// It returns the list as it stood when the program exited.
func RunTUI(ctx context.Context, mgr *task.Manager, src Loader, list task.List, opts ...TUIOption) (task.List, error) {
	c := &tuiConfig{output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return list, fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(mgr, src, list, c.taskPath)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	finalModel, err := program.Run()
	if err != nil {
		return model.list, err
	}
	if m, ok := finalModel.(*tuiModel); ok {
		return m.list, nil
	}
	return model.list, nil
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEditName
	modeEditPriority
	modeEditDue
)

// addStep tracks which field of a new task is being entered.
type addStep int

const (
	stepName addStep = iota
	stepPriority
	stepDue
)

type tuiModel struct {
	mgr      *task.Manager
	src      Loader
	taskPath string

	list    task.List
	entries []task.Entry
	cursor  int

	mode  inputMode
	step  addStep
	draft task.Task
	input textinput.Model

	status    string
	statusErr bool
	showHelp  bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")).
			Strikethrough(true)

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89B4FA")).
			Padding(0, 1)
)

func newTUIModel(mgr *task.Manager, src Loader, list task.List, taskPath string) *tuiModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := &tuiModel{
		mgr:      mgr,
		src:      src,
		taskPath: taskPath,
		input:    ti,
	}
	m.setList(list)
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode != modeBrowse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode != modeBrowse {
		return m.updateInput(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
	case " ", "space", "x":
		m.complete()
	case "d":
		m.delete()
	case "a":
		m.draft = task.Task{}
		m.step = stepName
		return m, m.startInput(modeAdd, "Task name", "")
	case "e":
		if e, ok := m.selected(); ok {
			return m, m.startInput(modeEditName, "New task name", e.Task.Name)
		}
	case "p":
		if e, ok := m.selected(); ok {
			return m, m.startInput(modeEditPriority, "New priority (High, Medium, Low)", e.Task.Priority)
		}
	case "u":
		if e, ok := m.selected(); ok {
			value := ""
			if e.Task.HasDueDate() {
				value = e.Task.DueDate
			}
			return m, m.startInput(modeEditDue, "New due date (YYYY-MM-DD)", value)
		}
	case "r", "f5":
		m.reload()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.stopInput()
		m.setStatus("Cancelled.")
		return m, nil
	case "enter":
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// submit applies the value in the input line for the current mode.
func (m *tuiModel) submit() tea.Cmd {
	value := m.input.Value()

	if m.mode == modeAdd {
		switch m.step {
		case stepName:
			if strings.TrimSpace(value) == "" {
				m.setError(errors.New("task name is required"))
				return nil
			}
			m.draft.Name = value
			m.step = stepPriority
			return m.startInput(modeAdd, "Priority (High, Medium, Low)", "")
		case stepPriority:
			m.draft.Priority = task.NormalizePriority(value)
			m.step = stepDue
			return m.startInput(modeAdd, "Due date (YYYY-MM-DD) or blank", "")
		case stepDue:
			m.stopInput()
			next, err := m.mgr.Add(m.list, m.draft.Name, m.draft.Priority, strings.TrimSpace(value))
			if err != nil {
				m.setError(err)
				return nil
			}
			m.setList(next)
			m.follow(len(next) - 1)
			m.setStatus(fmt.Sprintf("Task '%s' added.", m.draft.Name))
			return nil
		}
	}

	e, ok := m.selected()
	mode := m.mode
	m.stopInput()
	if !ok {
		m.setError(task.ErrInvalidIndex)
		return nil
	}

	var (
		next task.List
		err  error
		msg  string
	)
	switch mode {
	case modeEditName:
		next, err = m.mgr.EditName(m.list, e.Index, value)
		msg = fmt.Sprintf("Task '%s' updated to '%s'.", e.Task.Name, value)
	case modeEditPriority:
		priority := task.NormalizePriority(value)
		next, err = m.mgr.EditPriority(m.list, e.Index, priority)
		msg = fmt.Sprintf("Task '%s' priority updated to '%s'.", e.Task.Name, priority)
	case modeEditDue:
		next, err = m.mgr.EditDueDate(m.list, e.Index, strings.TrimSpace(value))
		if err == nil {
			msg = fmt.Sprintf("Task '%s' due date updated to '%s'.", e.Task.Name, next[e.Index].DueDate)
		}
	}
	if err != nil {
		m.setError(err)
		return nil
	}
	m.setList(next)
	m.follow(e.Index)
	m.setStatus(msg)
	return nil
}

func (m *tuiModel) complete() {
	e, ok := m.selected()
	if !ok {
		return
	}
	next, err := m.mgr.Complete(m.list, e.Index)
	if err != nil {
		m.setError(err)
		return
	}
	m.setList(next)
	m.follow(e.Index)
	m.setStatus(fmt.Sprintf("Task '%s' marked as completed.", e.Task.Name))
}

func (m *tuiModel) delete() {
	e, ok := m.selected()
	if !ok {
		return
	}
	next, err := m.mgr.Delete(m.list, e.Index)
	if err != nil {
		m.setError(err)
		return
	}
	m.setList(next)
	m.setStatus(fmt.Sprintf("Task '%s' deleted.", e.Task.Name))
}

func (m *tuiModel) reload() {
	if m.src == nil {
		return
	}
	list, err := m.src.Load()
	if err != nil {
		m.setError(err)
		return
	}
	m.setList(list)
	m.setStatus("Reloaded.")
}

func (m *tuiModel) startInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *tuiModel) stopInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

// setList replaces the list and rebuilds the sorted view, keeping the
// cursor inside it.
func (m *tuiModel) setList(list task.List) {
	m.list = list
	m.entries = task.View(list)
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// follow moves the cursor to the row showing the task stored at index.
func (m *tuiModel) follow(index int) {
	for row, e := range m.entries {
		if e.Index == index {
			m.cursor = row
			return
		}
	}
}

func (m *tuiModel) selected() (task.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return task.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *tuiModel) setError(err error) {
	m.status = errorMessage(err)
	m.statusErr = true
}

// errorMessage renders err the way the menu prints it.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrInvalidDate):
		return "Invalid date format! Please enter in YYYY-MM-DD format!"
	case errors.Is(err, task.ErrInvalidIndex):
		return "Invalid task number."
	default:
		return "Error: " + err.Error()
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, task.Count(m.list))

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.taskPath)
		return b.String()
	}

	if len(m.entries) == 0 {
		b.WriteString("  No tasks found.\n")
	}
	for row, e := range m.entries {
		b.WriteString(m.formatRow(row, e))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode != modeBrowse {
		b.WriteString(inputStyle.Render(m.input.View()))
		b.WriteString("\n")
	}
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	writeFooter(&b, m.taskPath)
	return b.String()
}

func (m *tuiModel) formatRow(row int, e task.Entry) string {
	cursor := "  "
	if row == m.cursor {
		cursor = "> "
	}
	check := "[ ]"
	if e.Task.Completed {
		check = "[x]"
	}

	name := e.Task.Name
	switch {
	case row == m.cursor:
		name = selectedStyle.Render(name)
	case e.Task.Completed:
		name = completedStyle.Render(name)
	}

	due := "No due date"
	if e.Task.HasDueDate() {
		due = e.Task.DueDate
	}
	return fmt.Sprintf("%s%d. %s %s  %s  %s", cursor, row+1, check, name, priorityStyle(e.Task.Priority).Render(e.Task.Priority), due)
}

func priorityStyle(p string) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return highStyle
	case task.PriorityMedium:
		return mediumStyle
	case task.PriorityLow:
		return lowStyle
	default:
		return helpStyle
	}
}

func writeTitle(b *strings.Builder, c task.Counts) {
	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d tasks | %d pending | %d completed", c.Total, c.Pending, c.Completed)))
	b.WriteString("\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j, down      Move down\n")
	b.WriteString("  k, up        Move up\n")
	b.WriteString("  space, x     Mark completed\n")
	b.WriteString("  d            Delete\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  e            Edit name\n")
	b.WriteString("  p            Edit priority\n")
	b.WriteString("  u            Edit due date\n")
	b.WriteString("  r, F5        Reload from disk\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, taskPath string) {
	footer := "h help | a add | space done | d delete | q quit"
	if taskPath != "" {
		footer += " | " + taskPath
	}
	b.WriteString(helpStyle.Render(footer))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
