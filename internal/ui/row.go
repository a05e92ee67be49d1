package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskx/internal/models"
)

// rowEditor is a task row's inline edit state.
type rowEditor struct {
	task   models.Task
	fields fieldPair
	active bool
	err    string
}

func newRowEditor() rowEditor {
	return rowEditor{fields: newFieldPair()}
}

// Start enters edit mode pre-filled from task.
func (e *rowEditor) Start(task models.Task) {
	e.task = task
	e.fields.Set(task.Title, task.Description)
	e.fields.Focus()
	e.active = true
	e.err = ""
}

// Cancel leaves edit mode and restores the fields from the task.
func (e *rowEditor) Cancel() {
	e.fields.Set(e.task.Title, e.task.Description)
	e.active = false
	e.err = ""
}

// Save returns the trimmed fields and leaves edit mode, unless the title is blank.
func (e *rowEditor) Save() (title, description string, ok bool) {
	title, description = e.fields.Values()
	if title == "" {
		e.err = titleRequired
		return "", "", false
	}
	e.active = false
	e.err = ""
	return title, description, true
}

func (e *rowEditor) Next()                      { e.fields.Next() }
func (e *rowEditor) Update(msg tea.Msg) tea.Cmd { return e.fields.Update(msg) }

func (e *rowEditor) View() string {
	s := styles.title.Render("Edit task") + "\n" + e.fields.View()
	if e.err != "" {
		s += "\n" + styles.err.Render(e.err)
	}
	return s
}
