// package login implements the email-only sign-in flow: check, then adopt or confirm and register
package login

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/prompt"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/services"
	"github.com/desertthunder/taskx/internal/shared"
)

// State is the flow's current step.
type State int

const (
	Idle State = iota
	Checking
	Confirming
	Registering
	Navigating
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case Confirming:
		return "confirming"
	case Registering:
		return "registering"
	case Navigating:
		return "navigating"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Messages shown in the flow's error slot and field feedback.
const (
	ErrCheckingUser = "error checking user"
	ErrCreatingUser = "error creating user"

	FieldRequired = "email is required"
	FieldInvalid  = "enter a valid email"
)

// Op identifies which request produced a [Msg].
type Op int

const (
	OpCheck Op = iota
	OpRegister
)

// Msg is the result of an async [Cmd].
type Msg struct {
	Op       Op
	Check    *models.CheckUserResponse
	Register *models.RegisterUserResponse
	Err      error
}

// Cmd performs one gateway request. A nil Cmd means there is nothing to do.
type Cmd func(context.Context) Msg

// Session is the write side of the session store.
type Session interface {
	Set(*models.User) error
}

// Flow is the login screen's state machine. It is driven from a single goroutine.
type Flow struct {
	gateway services.AuthGateway
	session Session
	nav     router.Navigator
	logger  *log.Logger
	name    string

	state    State
	email    string
	touched  bool
	fieldErr string
	err      string
	prompt   *prompt.Request
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

// WithName sets the display name sent on registration.
func WithName(name string) Option {
	return func(f *Flow) { f.name = name }
}

// New creates an idle [Flow].
func New(gateway services.AuthGateway, session Session, nav router.Navigator, opts ...Option) *Flow {
	f := &Flow{
		gateway: gateway,
		session: session,
		nav:     nav,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State { return f.state }

// Email is the last submitted address after normalization.
func (f *Flow) Email() string { return f.email }

func (f *Flow) Touched() bool { return f.touched }

func (f *Flow) FieldError() string { return f.fieldErr }

// Err is the error slot shown above the form.
func (f *Flow) Err() string { return f.err }

// Prompt is the pending registration confirmation, or nil.
func (f *Flow) Prompt() *prompt.Request { return f.prompt }

// Busy reports whether a request is in flight.
func (f *Flow) Busy() bool { return f.state == Checking || f.state == Registering }

func (f *Flow) awaiting() bool { return f.Busy() || f.state == Confirming }

// Reset returns the flow to a fresh Idle state.
func (f *Flow) Reset() {
	*f = Flow{gateway: f.gateway, session: f.session, nav: f.nav, logger: f.logger, name: f.name}
}

// Submit validates email and starts the existence check.
//
// The email is trimmed and lower-cased first. Invalid input marks the field touched, sets
// field feedback and returns nil. Submits while a request or the prompt is pending are ignored.
func (f *Flow) Submit(email string) Cmd {
	if f.awaiting() {
		return nil
	}

	f.email = shared.NormalizeEmail(email)
	f.touched = true
	f.err = ""

	switch {
	case f.email == "":
		f.fieldErr = FieldRequired
	case !shared.ValidEmail(f.email):
		f.fieldErr = FieldInvalid
	default:
		f.fieldErr = ""
	}
	if f.fieldErr != "" {
		f.state = Idle
		return nil
	}

	f.state = Checking
	gateway, target := f.gateway, f.email
	return func(ctx context.Context) Msg {
		resp, err := gateway.CheckUser(ctx, target)
		return Msg{Op: OpCheck, Check: resp, Err: err}
	}
}

// Answer resolves the registration prompt. Declining returns to Idle.
func (f *Flow) Answer(confirm bool) Cmd {
	if f.state != Confirming {
		return nil
	}
	f.prompt = nil

	if !confirm {
		f.state = Idle
		return nil
	}

	f.state = Registering
	gateway, email, name := f.gateway, f.email, f.name
	return func(ctx context.Context) Msg {
		resp, err := gateway.RegisterUser(ctx, email, name)
		return Msg{Op: OpRegister, Register: resp, Err: err}
	}
}

// Update applies a request result. Results that no longer match the current state are dropped.
func (f *Flow) Update(msg Msg) {
	switch msg.Op {
	case OpCheck:
		if f.state != Checking {
			return
		}
		if msg.Err != nil || msg.Check == nil {
			f.fail(ErrCheckingUser, msg.Err)
			return
		}
		if msg.Check.Exists && msg.Check.User != nil && msg.Check.User.ID != "" {
			f.adopt(msg.Check.User)
			return
		}
		req := prompt.CreateUser(f.email)
		f.prompt = &req
		f.state = Confirming

	case OpRegister:
		if f.state != Registering {
			return
		}
		if msg.Err != nil || msg.Register == nil {
			f.fail(ErrCreatingUser, msg.Err)
			return
		}
		user := msg.Register.User
		f.adopt(&user)
	}
}

func (f *Flow) fail(message string, err error) {
	f.logger.Error(message, "email", f.email, "error", err)
	f.err = message
	f.state = Failed
}

func (f *Flow) adopt(user *models.User) {
	if err := f.session.Set(user); err != nil {
		f.logger.Warn("session not persisted", "error", err)
	}
	f.logger.Info("logged in", "id", user.ID, "email", user.Email)
	f.state = Navigating
	f.nav.Navigate(router.To(router.Tasks))
}
