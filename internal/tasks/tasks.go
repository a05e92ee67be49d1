// package tasks implements load, create, toggle, edit and delete for the current user's tasks.
package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/prompt"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/services"
)

// Messages shown in the screen's error slot.
const (
	ErrLoading  = "error loading tasks"
	ErrCreating = "error creating task"
	ErrUpdating = "error updating task"
	ErrDeleting = "error deleting task"
)

// Op identifies which request produced a [Msg].
type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpToggle
	OpEdit
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpToggle:
		return "toggle"
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Msg is the result of an async [Cmd].
type Msg struct {
	Op     Op
	TaskID string
	Tasks  []models.Task
	Task   *models.Task
	Err    error
}

// Cmd performs one gateway request. A nil Cmd means there is nothing to do.
type Cmd func(context.Context) Msg

// Session is the read/write side of the session store.
type Session interface {
	Current() *models.User
	Set(*models.User) error
}

// Flow is the task screen's state machine. It is driven from a single goroutine.
type Flow struct {
	gateway services.TaskGateway
	session Session
	nav     router.Navigator
	logger  *log.Logger

	tasks   []models.Task
	err     string
	loading int
	busy    map[string]int
	pending *models.Task
	prompt  *prompt.Request
}

// Option configures a [Flow].
type Option func(*Flow)

// WithLogger sets the logger for gateway failures.
func WithLogger(l *log.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a [Flow] with an empty list.
func New(gateway services.TaskGateway, session Session, nav router.Navigator, opts ...Option) *Flow {
	f := &Flow{
		gateway: gateway,
		session: session,
		nav:     nav,
		logger:  log.New(io.Discard),
		tasks:   []models.Task{},
		busy:    map[string]int{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Tasks returns a copy of the list in display order.
func (f *Flow) Tasks() []models.Task {
	return append([]models.Task(nil), f.tasks...)
}

// Pending returns the tasks that are not completed.
func (f *Flow) Pending() []models.Task {
	return f.filter(false)
}

// Completed returns the completed tasks.
func (f *Flow) Completed() []models.Task {
	return f.filter(true)
}

func (f *Flow) PendingCount() int   { return len(f.filter(false)) }
func (f *Flow) CompletedCount() int { return len(f.filter(true)) }

func (f *Flow) filter(completed bool) []models.Task {
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// Err is the error slot shown above the list.
func (f *Flow) Err() string { return f.err }

// Loading reports whether a list request is in flight.
func (f *Flow) Loading() bool { return f.loading > 0 }

// Busy reports whether a toggle, edit or delete is in flight for taskID.
func (f *Flow) Busy(taskID string) bool { return f.busy[taskID] > 0 }

// Prompt is the pending delete confirmation, or nil.
func (f *Flow) Prompt() *prompt.Request { return f.prompt }

func (f *Flow) user() *models.User {
	return f.session.Current()
}

// Enter loads the list, or redirects to login when nobody is logged in.
func (f *Flow) Enter() Cmd {
	if f.user() == nil {
		f.nav.Navigate(router.To(router.Login))
		return nil
	}
	return f.Load()
}

// Load fetches the user's tasks.
func (f *Flow) Load() Cmd {
	user := f.user()
	if user == nil {
		return nil
	}

	f.err = ""
	f.loading++
	gateway, userID := f.gateway, user.ID
	return func(ctx context.Context) Msg {
		tasks, err := gateway.ListTasks(ctx, userID)
		return Msg{Op: OpLoad, Tasks: tasks, Err: err}
	}
}

// Create sends the trimmed input. A blank title returns nil.
func (f *Flow) Create(in models.TaskInput) Cmd {
	user := f.user()
	in = in.Normalize()
	if user == nil || in.Validate() != nil {
		return nil
	}

	f.err = ""
	gateway, userID := f.gateway, user.ID
	return func(ctx context.Context) Msg {
		resp, err := gateway.CreateTask(ctx, userID, in)
		return Msg{Op: OpCreate, Task: taskOf(resp), Err: err}
	}
}

// Toggle asks the server to flip completed. The local entry changes only when the result arrives.
func (f *Flow) Toggle(task models.Task) Cmd {
	return f.update(OpToggle, task.ID, models.CompletedChange(!task.Completed))
}

// Edit sends the trimmed title and description. A blank title returns nil.
func (f *Flow) Edit(task models.Task, title, description string) Cmd {
	in := models.TaskInput{Title: title, Description: description}.Normalize()
	if in.Validate() != nil {
		return nil
	}
	return f.update(OpEdit, task.ID, models.ContentChange(in.Title, in.Description))
}

func (f *Flow) update(op Op, taskID string, changes models.TaskChanges) Cmd {
	user := f.user()
	if user == nil {
		return nil
	}

	f.err = ""
	f.busy[taskID]++
	gateway, userID := f.gateway, user.ID
	return func(ctx context.Context) Msg {
		resp, err := gateway.UpdateTask(ctx, userID, taskID, changes)
		return Msg{Op: op, TaskID: taskID, Task: taskOf(resp), Err: err}
	}
}

// RequestDelete opens the confirmation naming the task's title.
func (f *Flow) RequestDelete(task models.Task) {
	if f.user() == nil {
		return
	}
	req := prompt.DeleteTask(task.Title)
	f.pending = &task
	f.prompt = &req
}

// ResolveDelete closes the confirmation. Declining makes no request.
func (f *Flow) ResolveDelete(confirm bool) Cmd {
	task := f.pending
	f.pending, f.prompt = nil, nil

	user := f.user()
	if task == nil || !confirm || user == nil {
		return nil
	}

	f.err = ""
	f.busy[task.ID]++
	gateway, userID, taskID := f.gateway, user.ID, task.ID
	return func(ctx context.Context) Msg {
		_, err := gateway.DeleteTask(ctx, userID, taskID)
		return Msg{Op: OpDelete, TaskID: taskID, Err: err}
	}
}

// Logout clears the session and the list, then navigates to login. In-flight requests are not cancelled.
func (f *Flow) Logout() {
	if err := f.session.Set(nil); err != nil {
		f.logger.Warn("session not cleared from storage", "error", err)
	}
	f.tasks = []models.Task{}
	f.err = ""
	f.pending, f.prompt = nil, nil
	f.nav.Navigate(router.To(router.Login))
}

// Update applies a request result to the list.
func (f *Flow) Update(msg Msg) {
	switch msg.Op {
	case OpLoad:
		if f.loading > 0 {
			f.loading--
		}
		if msg.Err != nil {
			f.fail(ErrLoading, msg)
			return
		}
		f.tasks = append([]models.Task{}, msg.Tasks...)

	case OpCreate:
		if msg.Err != nil || msg.Task == nil {
			f.fail(ErrCreating, msg)
			return
		}
		f.tasks = append([]models.Task{*msg.Task}, f.tasks...)
		f.logger.Info("task created", "id", msg.Task.ID)

	case OpToggle, OpEdit:
		f.done(msg.TaskID)
		if msg.Err != nil || msg.Task == nil {
			f.fail(ErrUpdating, msg)
			return
		}
		for i := range f.tasks {
			if f.tasks[i].ID == msg.TaskID {
				f.tasks[i] = *msg.Task
				break
			}
		}

	case OpDelete:
		f.done(msg.TaskID)
		if msg.Err != nil {
			f.fail(ErrDeleting, msg)
			return
		}
		kept := make([]models.Task, 0, len(f.tasks))
		for _, t := range f.tasks {
			if t.ID != msg.TaskID {
				kept = append(kept, t)
			}
		}
		f.tasks = kept
		f.logger.Info("task deleted", "id", msg.TaskID)
	}
}

func (f *Flow) done(taskID string) {
	if f.busy[taskID] <= 1 {
		delete(f.busy, taskID)
		return
	}
	f.busy[taskID]--
}

func (f *Flow) fail(message string, msg Msg) {
	f.logger.Error(message, "op", msg.Op, "task", msg.TaskID, "error", msg.Err)
	f.err = message
}

func taskOf(resp *models.TaskResponse) *models.Task {
	if resp == nil {
		return nil
	}
	t := resp.Task
	return &t
}
