package login

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/session"
	tu "github.com/desertthunder/taskx/internal/testing"
)

type fixture struct {
	gateway *tu.FakeGateway
	store   *session.Store
	nav     *tu.RecordingNavigator
	flow    *Flow
}

func newFixture(opts ...Option) *fixture {
	fx := &fixture{
		gateway: tu.NewFakeGateway(),
		store:   session.NewStore(session.NewMemoryStorage()),
		nav:     &tu.RecordingNavigator{},
	}
	fx.flow = New(fx.gateway, fx.store, fx.nav, opts...)
	return fx
}

func run(t *testing.T, f *Flow, cmd Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	f.Update(cmd(context.Background()))
}

func TestSubmit(t *testing.T) {
	t.Run("Existing User Is Adopted", func(t *testing.T) {
		fx := newFixture()
		fx.gateway.AddUser(models.User{ID: "1", Email: "a@b.com"})

		run(t, fx.flow, fx.flow.Submit("a@b.com"))

		if got := fx.store.Current(); got == nil || got.ID != "1" || got.Email != "a@b.com" {
			t.Errorf("expected session {1 a@b.com}, got %+v", got)
		}
		if fx.flow.State() != Navigating {
			t.Errorf("expected navigating, got %s", fx.flow.State())
		}
		last, ok := fx.nav.Last()
		if !ok || last.Route != router.Tasks {
			t.Errorf("expected navigation to tasks, got %+v", fx.nav.Calls)
		}
		if fx.gateway.RegisterCalls != 0 {
			t.Error("existing user should not be registered")
		}
	})

	t.Run("Normalizes Email", func(t *testing.T) {
		fx := newFixture()
		fx.gateway.AddUser(models.User{ID: "1", Email: "a@b.com"})

		run(t, fx.flow, fx.flow.Submit("  A@B.Com "))

		if fx.flow.Email() != "a@b.com" {
			t.Errorf("expected normalized email, got %q", fx.flow.Email())
		}
		if !fx.store.IsLoggedIn() {
			t.Error("expected normalized lookup to find the user")
		}
	})

	t.Run("Invalid Input Makes No Call", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"", FieldRequired},
			{"   ", FieldRequired},
			{"not-an-email", FieldInvalid},
			{"a@", FieldInvalid},
			{"@b.com", FieldInvalid},
		}

		for _, tt := range tests {
			fx := newFixture()
			if cmd := fx.flow.Submit(tt.input); cmd != nil {
				t.Errorf("Submit(%q): expected no command", tt.input)
			}
			if fx.flow.FieldError() != tt.want {
				t.Errorf("Submit(%q): expected field error %q, got %q", tt.input, tt.want, fx.flow.FieldError())
			}
			if !fx.flow.Touched() || fx.flow.State() != Idle {
				t.Errorf("Submit(%q): expected touched and idle", tt.input)
			}
			if fx.gateway.CheckCalls != 0 {
				t.Errorf("Submit(%q): expected no gateway call", tt.input)
			}
		}
	})

	t.Run("Ignored While Pending", func(t *testing.T) {
		fx := newFixture()

		first := fx.flow.Submit("a@b.com")
		if first == nil {
			t.Fatal("expected a command")
		}
		if second := fx.flow.Submit("a@b.com"); second != nil {
			t.Error("expected double submit to be ignored while checking")
		}

		fx.flow.Update(first(context.Background()))
		if fx.flow.State() != Confirming {
			t.Fatalf("expected confirming, got %s", fx.flow.State())
		}
		if cmd := fx.flow.Submit("c@d.com"); cmd != nil {
			t.Error("expected submit to be ignored while confirming")
		}
	})

	t.Run("Check Failure", func(t *testing.T) {
		fx := newFixture()
		fx.gateway.CheckErr = errors.New("boom")

		run(t, fx.flow, fx.flow.Submit("a@b.com"))

		if fx.flow.State() != Failed || fx.flow.Err() != ErrCheckingUser {
			t.Errorf("expected failed with %q, got %s %q", ErrCheckingUser, fx.flow.State(), fx.flow.Err())
		}
		if fx.store.IsLoggedIn() || len(fx.nav.Calls) != 0 {
			t.Error("expected no session change and no navigation")
		}

		fx.gateway.CheckErr = nil
		cmd := fx.flow.Submit("a@b.com")
		if fx.flow.Err() != "" {
			t.Error("expected error slot cleared at the start of a new attempt")
		}
		run(t, fx.flow, cmd)
	})

	t.Run("Exists Without User Prompts", func(t *testing.T) {
		fx := newFixture()
		fx.gateway.AddUser(models.User{ID: "1", Email: "a@b.com"})
		fx.gateway.NilUserOnExists = true

		run(t, fx.flow, fx.flow.Submit("a@b.com"))

		if fx.flow.State() != Confirming {
			t.Errorf("expected confirming, got %s", fx.flow.State())
		}
	})
}

func TestAnswer(t *testing.T) {
	t.Run("Decline Leaves Session Unchanged", func(t *testing.T) {
		fx := newFixture()

		run(t, fx.flow, fx.flow.Submit("new@b.com"))

		req := fx.flow.Prompt()
		if req == nil || !strings.Contains(req.Message, "new@b.com") {
			t.Fatalf("expected prompt naming the email, got %+v", req)
		}

		if cmd := fx.flow.Answer(false); cmd != nil {
			t.Error("expected no command on decline")
		}
		if fx.flow.State() != Idle || fx.flow.Prompt() != nil {
			t.Errorf("expected idle without prompt, got %s", fx.flow.State())
		}
		if fx.store.IsLoggedIn() || len(fx.nav.Calls) != 0 || fx.gateway.RegisterCalls != 0 {
			t.Error("expected no session, navigation or registration")
		}
	})

	t.Run("Confirm Registers And Navigates", func(t *testing.T) {
		fx := newFixture(WithName("New"))

		run(t, fx.flow, fx.flow.Submit("new@b.com"))
		run(t, fx.flow, fx.flow.Answer(true))

		got := fx.store.Current()
		if got == nil || got.Email != "new@b.com" || got.Name != "New" {
			t.Errorf("expected registered user in session, got %+v", got)
		}
		if last, _ := fx.nav.Last(); last.Route != router.Tasks {
			t.Errorf("expected navigation to tasks, got %+v", fx.nav.Calls)
		}
	})

	t.Run("Register Failure", func(t *testing.T) {
		fx := newFixture()
		fx.gateway.RegisterErr = errors.New("boom")

		run(t, fx.flow, fx.flow.Submit("new@b.com"))
		run(t, fx.flow, fx.flow.Answer(true))

		if fx.flow.State() != Failed || fx.flow.Err() != ErrCreatingUser {
			t.Errorf("expected failed with %q, got %s %q", ErrCreatingUser, fx.flow.State(), fx.flow.Err())
		}
		if fx.store.IsLoggedIn() {
			t.Error("expected no session")
		}
	})

	t.Run("Outside Confirming", func(t *testing.T) {
		fx := newFixture()
		if cmd := fx.flow.Answer(true); cmd != nil {
			t.Error("expected answer without prompt to be ignored")
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Stale Result Dropped", func(t *testing.T) {
		fx := newFixture()
		fx.flow.Update(Msg{Op: OpCheck, Check: &models.CheckUserResponse{Exists: true, User: &models.User{ID: "1"}}})

		if fx.store.IsLoggedIn() || fx.flow.State() != Idle {
			t.Error("expected result outside checking to be ignored")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		fx := newFixture()
		fx.flow.Submit("bad")
		fx.flow.Reset()

		if fx.flow.Touched() || fx.flow.FieldError() != "" || fx.flow.Email() != "" {
			t.Error("expected reset to clear form state")
		}
		if cmd := fx.flow.Submit("a@b.com"); cmd == nil {
			t.Error("expected flow to be usable after reset")
		}
	})

	t.Run("State Names", func(t *testing.T) {
		for s, want := range map[State]string{Idle: "idle", Checking: "checking", Failed: "failed", State(99): "unknown"} {
			if s.String() != want {
				t.Errorf("expected %s, got %s", want, s.String())
			}
		}
	})
}
