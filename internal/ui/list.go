package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/taskx/internal/models"
)

var (
	_ list.Item = taskItem{}
)

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task models.Task
	busy bool
}

func (i taskItem) FilterValue() string { return i.task.Title }
func (i taskItem) Title() string {
	mark := "[ ] "
	if i.task.Completed {
		mark = "[x] "
	}
	title := mark + i.task.Title
	if i.task.Completed {
		title = styles.done.Render(title)
	}
	if i.busy {
		title += " …"
	}
	return title
}
func (i taskItem) Description() string { return i.task.Description }

// taskFilter selects which derived view the list shows.
type taskFilter int

const (
	showAll taskFilter = iota
	showPending
	showCompleted
)

func (f taskFilter) next() taskFilter { return (f + 1) % 3 }

func (f taskFilter) String() string {
	switch f {
	case showPending:
		return "pending"
	case showCompleted:
		return "completed"
	default:
		return "all"
	}
}
