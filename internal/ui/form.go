package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskx/internal/models"
)

const titleRequired = "title is required"

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// fieldPair is a title and description input with tab focus.
type fieldPair struct {
	title       textinput.Model
	description textinput.Model
	focus       int
}

func newFieldPair() fieldPair {
	return fieldPair{
		title:       newInput("Title", 200),
		description: newInput("Description (optional)", 1000),
	}
}

func (p *fieldPair) Focus() {
	p.focus = 0
	p.title.Focus()
	p.description.Blur()
}

func (p *fieldPair) Next() {
	p.focus = 1 - p.focus
	if p.focus == 0 {
		p.title.Focus()
		p.description.Blur()
	} else {
		p.description.Focus()
		p.title.Blur()
	}
}

func (p *fieldPair) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if p.focus == 0 {
		p.title, cmd = p.title.Update(msg)
	} else {
		p.description, cmd = p.description.Update(msg)
	}
	return cmd
}

func (p *fieldPair) Set(title, description string) {
	p.title.SetValue(title)
	p.description.SetValue(description)
}

// Values returns both fields trimmed.
func (p *fieldPair) Values() (string, string) {
	return strings.TrimSpace(p.title.Value()), strings.TrimSpace(p.description.Value())
}

func (p *fieldPair) View() string {
	return "Title:       " + p.title.View() + "\nDescription: " + p.description.View()
}

// taskForm collects a new task. It validates before emitting and resets after.
type taskForm struct {
	fields  fieldPair
	touched bool
	err     string
}

func newTaskForm() taskForm {
	return taskForm{fields: newFieldPair()}
}

func (f *taskForm) Focus()                     { f.fields.Focus() }
func (f *taskForm) Next()                      { f.fields.Next() }
func (f *taskForm) Update(msg tea.Msg) tea.Cmd { return f.fields.Update(msg) }

// Reset clears both fields and the touched state.
func (f *taskForm) Reset() {
	f.fields.Set("", "")
	f.touched = false
	f.err = ""
	f.fields.Focus()
}

// Submit marks the form touched and returns the trimmed input when the title is present.
func (f *taskForm) Submit() (models.TaskInput, bool) {
	f.touched = true
	title, description := f.fields.Values()
	in := models.TaskInput{Title: title, Description: description}
	if in.Validate() != nil {
		f.err = titleRequired
		return models.TaskInput{}, false
	}
	f.Reset()
	return in, true
}

func (f *taskForm) View() string {
	s := styles.title.Render("New task") + "\n" + f.fields.View()
	if f.touched && f.err != "" {
		s += "\n" + styles.err.Render(f.err)
	}
	return s
}
