package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/login"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/services"
	"github.com/desertthunder/taskx/internal/session"
	"github.com/desertthunder/taskx/internal/tasks"
)

// maxRedirects bounds guard redirects handled after one update.
const maxRedirects = 4

// tasksMode is the task screen's sub-view.
type tasksMode int

const (
	browsing tasksMode = iota
	adding
	editing
)

var _ router.Navigator = (*App)(nil)

// App is the two-screen (login, tasks) TUI shell.
//
// It implements [router.Navigator]: navigations requested during an update are
// run through the router's guards once the update finishes.
type App struct {
	ctx     context.Context
	logger  *log.Logger
	router  *router.Router
	session *session.Store
	start   string

	screen  router.Route
	pending []router.Navigation
	user    *models.User
	unsub   func()

	login *login.Flow
	email textinput.Model

	tasks  *tasks.Flow
	mode   tasksMode
	filter taskFilter
	list   list.Model
	form   taskForm
	editor rowEditor

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

// AppOpts contains the dependencies for [NewApp].
type AppOpts struct {
	Gateway services.Gateway
	Session *session.Store
	Logger  *log.Logger
	Start   string // initial location, resolved through the router
}

// NewApp creates the TUI shell. Call [App.Close] when the program exits.
func NewApp(ctx context.Context, opts AppOpts) *App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	a := &App{
		ctx:     ctx,
		logger:  opts.Logger,
		session: opts.Session,
		start:   opts.Start,
		screen:  router.Login,
		email:   newInput("you@example.com", 254),
		form:    newTaskForm(),
		editor:  newRowEditor(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
	}

	a.router = router.New(opts.Session, a)
	a.login = login.New(opts.Gateway, opts.Session, a, login.WithLogger(opts.Logger))
	a.tasks = tasks.New(opts.Gateway, opts.Session, a, tasks.WithLogger(opts.Logger))

	a.list = list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	a.list.SetShowHelp(false)
	a.list.SetFilteringEnabled(false)
	a.list.SetShowStatusBar(false)
	a.list.Title = "Tasks"

	a.unsub = opts.Session.Subscribe(func(u *models.User) { a.user = u })
	return a
}

// Navigate queues nav until the current update finishes.
func (a *App) Navigate(nav router.Navigation) {
	a.pending = append(a.pending, nav)
}

// Screen is the route currently shown.
func (a *App) Screen() router.Route { return a.screen }

// Close removes the session subscription.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

// Init resolves the start location and starts the spinner.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.begin(), a.spinner.Tick)
}

func (a *App) begin() tea.Cmd {
	a.Navigate(a.router.Resolve(a.start))
	return a.navigate()
}

// navigate drains queued navigations, entering each allowed target.
func (a *App) navigate() tea.Cmd {
	var cmds []tea.Cmd
	for i := 0; len(a.pending) > 0 && i < maxRedirects; i++ {
		nav := a.pending[0]
		a.pending = a.pending[1:]

		if !a.router.Enter(nav) {
			continue
		}
		cmds = append(cmds, a.show(nav))
	}
	a.pending = nil
	return tea.Batch(cmds...)
}

func (a *App) show(nav router.Navigation) tea.Cmd {
	a.screen = nav.Route
	a.logger.Debug("navigate", "route", nav.Route, "url", nav.URL)

	switch nav.Route {
	case router.Tasks:
		a.mode = browsing
		a.refreshList()
		return a.tasksCmd(a.tasks.Enter())
	default:
		a.login.Reset()
		a.email.SetValue("")
		a.email.Focus()
		return nil
	}
}

func (a *App) loginCmd(c login.Cmd) tea.Cmd {
	if c == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg { return loginResultMsg(c(ctx)) }
}

func (a *App) tasksCmd(c tasks.Cmd) tea.Cmd {
	if c == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg { return tasksResultMsg(c(ctx)) }
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.list.SetSize(msg.Width-4, msg.Height-10)
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case Msg:
		switch msg.kind {
		case MsgLoginResult:
			a.login.Update(msg.data.(login.Msg))
		case MsgTasksResult:
			a.tasks.Update(msg.data.(tasks.Msg))
			a.refreshList()
		}

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.abort) {
			return a, tea.Quit
		}
		switch a.screen {
		case router.Tasks:
			cmd = a.updateTasks(msg)
		default:
			cmd = a.updateLogin(msg)
		}
	}

	return a, tea.Batch(cmd, a.navigate())
}

func (a *App) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if a.login.State() == login.Confirming {
		switch {
		case key.Matches(msg, a.keys.yes):
			return a.loginCmd(a.login.Answer(true))
		case key.Matches(msg, a.keys.no):
			return a.loginCmd(a.login.Answer(false))
		}
		return nil
	}

	if key.Matches(msg, a.keys.enter) {
		return a.loginCmd(a.login.Submit(a.email.Value()))
	}

	var cmd tea.Cmd
	a.email, cmd = a.email.Update(msg)
	return cmd
}

func (a *App) updateTasks(msg tea.KeyMsg) tea.Cmd {
	if a.tasks.Prompt() != nil {
		switch {
		case key.Matches(msg, a.keys.yes):
			return a.tasksCmd(a.tasks.ResolveDelete(true))
		case key.Matches(msg, a.keys.no):
			return a.tasksCmd(a.tasks.ResolveDelete(false))
		}
		return nil
	}

	switch a.mode {
	case adding:
		return a.updateForm(msg)
	case editing:
		return a.updateEditor(msg)
	}

	selected, hasSelection := a.selected()
	switch {
	case key.Matches(msg, a.keys.quit):
		return tea.Quit
	case key.Matches(msg, a.keys.add):
		a.mode = adding
		a.form.Reset()
		return nil
	case key.Matches(msg, a.keys.edit) && hasSelection:
		a.mode = editing
		a.editor.Start(selected)
		return nil
	case key.Matches(msg, a.keys.toggle) && hasSelection:
		cmd := a.tasksCmd(a.tasks.Toggle(selected))
		a.refreshList()
		return cmd
	case key.Matches(msg, a.keys.remove) && hasSelection:
		a.tasks.RequestDelete(selected)
		return nil
	case key.Matches(msg, a.keys.filter):
		a.filter = a.filter.next()
		a.refreshList()
		return nil
	case key.Matches(msg, a.keys.reload):
		return a.tasksCmd(a.tasks.Load())
	case key.Matches(msg, a.keys.logout):
		a.tasks.Logout()
		return nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return cmd
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.back):
		a.form.Reset()
		a.mode = browsing
		return nil
	case key.Matches(msg, a.keys.tab):
		a.form.Next()
		return nil
	case key.Matches(msg, a.keys.enter):
		in, ok := a.form.Submit()
		if !ok {
			return nil
		}
		a.mode = browsing
		return a.tasksCmd(a.tasks.Create(in))
	}
	return a.form.Update(msg)
}

func (a *App) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.back):
		a.editor.Cancel()
		a.mode = browsing
		return nil
	case key.Matches(msg, a.keys.tab):
		a.editor.Next()
		return nil
	case key.Matches(msg, a.keys.enter):
		title, description, ok := a.editor.Save()
		if !ok {
			return nil
		}
		a.mode = browsing
		cmd := a.tasksCmd(a.tasks.Edit(a.editor.task, title, description))
		a.refreshList()
		return cmd
	}
	return a.editor.Update(msg)
}

func (a *App) selected() (models.Task, bool) {
	item, ok := a.list.SelectedItem().(taskItem)
	if !ok {
		return models.Task{}, false
	}
	return item.task, true
}

func (a *App) visible() []models.Task {
	switch a.filter {
	case showPending:
		return a.tasks.Pending()
	case showCompleted:
		return a.tasks.Completed()
	default:
		return a.tasks.Tasks()
	}
}

// refreshList rebuilds the list items from the flow's current list.
func (a *App) refreshList() {
	visible := a.visible()
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = taskItem{task: t, busy: a.tasks.Busy(t.ID)}
	}

	index := a.list.Index()
	a.list.SetItems(items)
	if index >= len(items) && len(items) > 0 {
		a.list.Select(len(items) - 1)
	}
}

// View renders the UI based on the current screen.
func (a *App) View() string {
	switch a.screen {
	case router.Tasks:
		return a.renderTasks()
	default:
		return a.renderLogin()
	}
}

func (a *App) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("taskx: sign in with your email"))
	b.WriteString("\n")
	b.WriteString(a.email.View())
	b.WriteString("\n")

	if a.login.Touched() && a.login.FieldError() != "" {
		b.WriteString(styles.err.Render(a.login.FieldError()) + "\n")
	}
	if a.login.Err() != "" {
		b.WriteString(styles.err.Render(a.login.Err()) + "\n")
	}

	switch a.login.State() {
	case login.Checking:
		b.WriteString(a.spinner.View() + " checking " + a.login.Email() + "\n")
	case login.Registering:
		b.WriteString(a.spinner.View() + " creating user " + a.login.Email() + "\n")
	case login.Confirming:
		b.WriteString("\n" + renderConfirm(*a.login.Prompt(), a.keys, a.help) + "\n")
		return b.String()
	}

	b.WriteString("\n" + a.help.ShortHelpView([]key.Binding{a.keys.enter, a.keys.abort}))
	return b.String()
}

func (a *App) renderTasks() string {
	var b strings.Builder

	name := ""
	if a.user != nil {
		name = a.user.DisplayName()
	}
	header := fmt.Sprintf("Tasks for %s", name)
	counts := fmt.Sprintf("%d pending · %d completed · showing %s", a.tasks.PendingCount(), a.tasks.CompletedCount(), a.filter)
	b.WriteString(styles.title.Render(header) + "\n")
	b.WriteString(styles.help.Render(counts) + "\n")

	if a.tasks.Loading() {
		b.WriteString(a.spinner.View() + " loading\n")
	}
	if a.tasks.Err() != "" {
		b.WriteString(styles.err.Render(a.tasks.Err()) + "\n")
	}

	switch {
	case a.tasks.Prompt() != nil:
		b.WriteString(renderConfirm(*a.tasks.Prompt(), a.keys, a.help))
	case a.mode == adding:
		b.WriteString(a.form.View() + "\n\n")
		b.WriteString(a.help.ShortHelpView([]key.Binding{a.keys.enter, a.keys.tab, a.keys.back}))
	case a.mode == editing:
		b.WriteString(a.editor.View() + "\n\n")
		b.WriteString(a.help.ShortHelpView([]key.Binding{a.keys.enter, a.keys.tab, a.keys.back}))
	default:
		if len(a.list.Items()) == 0 && !a.tasks.Loading() {
			b.WriteString(styles.help.Render("No tasks. Press a to add one.") + "\n")
		} else {
			b.WriteString(a.list.View() + "\n")
		}
		b.WriteString(a.help.ShortHelpView([]key.Binding{
			a.keys.add, a.keys.edit, a.keys.toggle, a.keys.remove, a.keys.filter, a.keys.logout, a.keys.quit,
		}))
	}
	return b.String()
}
