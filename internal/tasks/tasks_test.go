package tasks

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/session"
	tu "github.com/desertthunder/taskx/internal/testing"
)

var alice = &models.User{ID: "u1", Email: "a@b.com"}

type fixture struct {
	gateway *tu.FakeGateway
	store   *session.Store
	nav     *tu.RecordingNavigator
	flow    *Flow
}

func newFixture(t *testing.T, user *models.User, seed ...models.Task) *fixture {
	t.Helper()
	fx := &fixture{
		gateway: tu.NewFakeGateway(),
		store:   session.NewStore(session.NewMemoryStorage()),
		nav:     &tu.RecordingNavigator{},
	}
	if user != nil {
		fx.store.Set(user)
		fx.gateway.AddTasks(user.ID, seed...)
	}
	fx.flow = New(fx.gateway, fx.store, fx.nav)
	return fx
}

// loaded returns a fixture whose flow has already loaded the seeded list.
func loaded(t *testing.T, seed ...models.Task) *fixture {
	t.Helper()
	fx := newFixture(t, alice, seed...)
	run(t, fx.flow, fx.flow.Enter())
	return fx
}

func run(t *testing.T, f *Flow, cmd Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	f.Update(cmd(context.Background()))
}

func ids(tasks []models.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestEnter(t *testing.T) {
	t.Run("No User Redirects Without Gateway Calls", func(t *testing.T) {
		fx := newFixture(t, nil)

		if cmd := fx.flow.Enter(); cmd != nil {
			t.Error("expected no command without a user")
		}
		last, ok := fx.nav.Last()
		if !ok || last.Route != router.Login {
			t.Errorf("expected redirect to login, got %+v", fx.nav.Calls)
		}
		if fx.gateway.ListCalls != 0 {
			t.Error("expected no gateway calls")
		}
	})

	t.Run("Loads Server Order", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t2"}, models.Task{ID: "t1"})

		if got := ids(fx.flow.Tasks()); !reflect.DeepEqual(got, []string{"t2", "t1"}) {
			t.Errorf("expected [t2 t1], got %v", got)
		}
		if fx.flow.Loading() {
			t.Error("expected loading to finish")
		}
	})

	t.Run("Load Failure Keeps List", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t1"})
		fx.gateway.ListErr = errors.New("boom")

		run(t, fx.flow, fx.flow.Load())

		if fx.flow.Err() != ErrLoading {
			t.Errorf("expected %q, got %q", ErrLoading, fx.flow.Err())
		}
		if got := ids(fx.flow.Tasks()); !reflect.DeepEqual(got, []string{"t1"}) {
			t.Errorf("expected list unchanged, got %v", got)
		}
	})

	t.Run("Loading While In Flight", func(t *testing.T) {
		fx := newFixture(t, alice)
		cmd := fx.flow.Load()

		if !fx.flow.Loading() {
			t.Error("expected loading while the request is pending")
		}
		fx.flow.Update(cmd(context.Background()))
		if fx.flow.Loading() {
			t.Error("expected loading cleared after result")
		}
	})
}

func TestCreate(t *testing.T) {
	t.Run("Prepends Returned Task", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t1", Title: "old"})

		run(t, fx.flow, fx.flow.Create(models.TaskInput{Title: "  Buy milk ", Description: "  "}))

		tasks := fx.flow.Tasks()
		if len(tasks) != 2 || tasks[1].ID != "t1" {
			t.Fatalf("expected new task before t1, got %+v", tasks)
		}
		if tasks[0].Title != "Buy milk" || tasks[0].Description != "" || tasks[0].Completed {
			t.Errorf("expected trimmed incomplete task, got %+v", tasks[0])
		}
	})

	t.Run("Blank Title Makes No Call", func(t *testing.T) {
		fx := loaded(t)

		if cmd := fx.flow.Create(models.TaskInput{Title: "   "}); cmd != nil {
			t.Error("expected no command for blank title")
		}
		if fx.gateway.CreateCalls != 0 {
			t.Error("expected no gateway call")
		}
	})

	t.Run("Failure Leaves List Identical", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t1"}, models.Task{ID: "t2", Completed: true})
		before := fx.flow.Tasks()
		fx.gateway.CreateErr = errors.New("boom")

		run(t, fx.flow, fx.flow.Create(models.TaskInput{Title: "x"}))

		if fx.flow.Err() != ErrCreating {
			t.Errorf("expected %q, got %q", ErrCreating, fx.flow.Err())
		}
		if !reflect.DeepEqual(before, fx.flow.Tasks()) {
			t.Errorf("expected list unchanged, got %+v", fx.flow.Tasks())
		}
	})
}

func TestToggle(t *testing.T) {
	t.Run("Replaces By ID And Updates Counts", func(t *testing.T) {
		t1 := models.Task{ID: "t1", Title: "a"}
		fx := loaded(t, t1, models.Task{ID: "t2", Title: "b"})

		if fx.flow.PendingCount() != 2 || fx.flow.CompletedCount() != 0 {
			t.Fatalf("expected 2/0, got %d/%d", fx.flow.PendingCount(), fx.flow.CompletedCount())
		}

		cmd := fx.flow.Toggle(t1)
		if fx.flow.Tasks()[0].Completed {
			t.Error("expected no optimistic flip")
		}
		if !fx.flow.Busy("t1") {
			t.Error("expected t1 to be busy while the request is pending")
		}
		run(t, fx.flow, cmd)

		if !fx.flow.Tasks()[0].Completed {
			t.Error("expected t1 completed after result")
		}
		if fx.flow.Busy("t1") {
			t.Error("expected t1 no longer busy")
		}
		if fx.flow.PendingCount() != 1 || fx.flow.CompletedCount() != 1 {
			t.Errorf("expected 1/1, got %d/%d", fx.flow.PendingCount(), fx.flow.CompletedCount())
		}
		if got := ids(fx.flow.Completed()); !reflect.DeepEqual(got, []string{"t1"}) {
			t.Errorf("expected completed [t1], got %v", got)
		}
		if got := ids(fx.flow.Pending()); !reflect.DeepEqual(got, []string{"t2"}) {
			t.Errorf("expected pending [t2], got %v", got)
		}
	})

	t.Run("Failure Leaves List Identical", func(t *testing.T) {
		t1 := models.Task{ID: "t1", Title: "a"}
		fx := loaded(t, t1)
		fx.gateway.UpdateErr = errors.New("boom")

		run(t, fx.flow, fx.flow.Toggle(t1))

		if fx.flow.Err() != ErrUpdating {
			t.Errorf("expected %q, got %q", ErrUpdating, fx.flow.Err())
		}
		if !reflect.DeepEqual(fx.flow.Tasks(), []models.Task{t1}) {
			t.Errorf("expected list unchanged, got %+v", fx.flow.Tasks())
		}
	})

	t.Run("Error Cleared On Next Operation", func(t *testing.T) {
		t1 := models.Task{ID: "t1"}
		fx := loaded(t, t1)
		fx.gateway.UpdateErr = errors.New("boom")
		run(t, fx.flow, fx.flow.Toggle(t1))

		fx.gateway.UpdateErr = nil
		fx.flow.Toggle(t1)
		if fx.flow.Err() != "" {
			t.Errorf("expected error slot cleared, got %q", fx.flow.Err())
		}
	})
}

func TestEdit(t *testing.T) {
	t.Run("Sends Trimmed Fields", func(t *testing.T) {
		t1 := models.Task{ID: "t1", Title: "a", Description: "old"}
		fx := loaded(t, t1, models.Task{ID: "t2"})

		run(t, fx.flow, fx.flow.Edit(t1, " new title ", " "))

		got := fx.flow.Tasks()[0]
		if got.Title != "new title" || got.Description != "" {
			t.Errorf("expected trimmed edit, got %+v", got)
		}
		if fx.flow.Tasks()[1].ID != "t2" {
			t.Error("expected position to be preserved")
		}
	})

	t.Run("Blank Title Makes No Call", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t1", Title: "a"})

		if cmd := fx.flow.Edit(models.Task{ID: "t1"}, " ", "x"); cmd != nil {
			t.Error("expected no command")
		}
		if fx.gateway.UpdateCalls != 0 {
			t.Error("expected no gateway call")
		}
	})
}

func TestDelete(t *testing.T) {
	t1 := models.Task{ID: "t1", Title: "Buy milk"}
	t2 := models.Task{ID: "t2", Title: "Walk dog"}

	t.Run("Confirm Removes By ID", func(t *testing.T) {
		fx := loaded(t, t1, t2)

		fx.flow.RequestDelete(t1)
		req := fx.flow.Prompt()
		if req == nil || !strings.Contains(req.Message, "Buy milk") {
			t.Fatalf("expected prompt naming the title, got %+v", req)
		}

		run(t, fx.flow, fx.flow.ResolveDelete(true))

		if got := ids(fx.flow.Tasks()); !reflect.DeepEqual(got, []string{"t2"}) {
			t.Errorf("expected [t2], got %v", got)
		}
		if fx.flow.Prompt() != nil {
			t.Error("expected prompt closed")
		}
	})

	t.Run("Decline Makes No Call", func(t *testing.T) {
		fx := loaded(t, t1, t2)

		fx.flow.RequestDelete(t1)
		if cmd := fx.flow.ResolveDelete(false); cmd != nil {
			t.Error("expected no command on decline")
		}
		if fx.gateway.DeleteCalls != 0 {
			t.Errorf("expected zero delete calls, got %d", fx.gateway.DeleteCalls)
		}
		if len(fx.flow.Tasks()) != 2 {
			t.Error("expected list unchanged")
		}
	})

	t.Run("Resolve Without Request", func(t *testing.T) {
		fx := loaded(t, t1)
		if cmd := fx.flow.ResolveDelete(true); cmd != nil {
			t.Error("expected no command without a pending request")
		}
	})

	t.Run("Failure Leaves List Identical", func(t *testing.T) {
		fx := loaded(t, t1, t2)
		fx.gateway.DeleteErr = errors.New("boom")

		fx.flow.RequestDelete(t1)
		run(t, fx.flow, fx.flow.ResolveDelete(true))

		if fx.flow.Err() != ErrDeleting {
			t.Errorf("expected %q, got %q", ErrDeleting, fx.flow.Err())
		}
		if got := ids(fx.flow.Tasks()); !reflect.DeepEqual(got, []string{"t1", "t2"}) {
			t.Errorf("expected list unchanged, got %v", got)
		}
	})
}

func TestNoUser(t *testing.T) {
	fx := newFixture(t, nil)
	task := models.Task{ID: "t1", Title: "a"}

	cmds := map[string]Cmd{
		"load":   fx.flow.Load(),
		"create": fx.flow.Create(models.TaskInput{Title: "x"}),
		"toggle": fx.flow.Toggle(task),
		"edit":   fx.flow.Edit(task, "b", ""),
	}
	fx.flow.RequestDelete(task)
	cmds["delete"] = fx.flow.ResolveDelete(true)

	for name, cmd := range cmds {
		if cmd != nil {
			t.Errorf("%s: expected silent no-op", name)
		}
	}
	if fx.flow.Prompt() != nil {
		t.Error("expected no prompt without a user")
	}
}

func TestLogout(t *testing.T) {
	fx := loaded(t, models.Task{ID: "t1"})

	fx.flow.Logout()

	if fx.store.IsLoggedIn() {
		t.Error("expected session cleared")
	}
	if last, _ := fx.nav.Last(); last.Route != router.Login {
		t.Errorf("expected navigation to login, got %+v", fx.nav.Calls)
	}
	if len(fx.flow.Tasks()) != 0 {
		t.Error("expected list cleared")
	}
}

func TestLateResults(t *testing.T) {
	t.Run("Overlapping Operations Keyed By ID", func(t *testing.T) {
		t1 := models.Task{ID: "t1", Title: "a"}
		t2 := models.Task{ID: "t2", Title: "b"}
		fx := loaded(t, t1, t2)

		toggle := fx.flow.Toggle(t1)
		fx.flow.RequestDelete(t2)
		del := fx.flow.ResolveDelete(true)

		fx.flow.Update(del(context.Background()))
		fx.flow.Update(toggle(context.Background()))

		tasks := fx.flow.Tasks()
		if len(tasks) != 1 || tasks[0].ID != "t1" || !tasks[0].Completed {
			t.Errorf("expected only completed t1, got %+v", tasks)
		}
	})

	t.Run("Result For Missing Task Is Ignored", func(t *testing.T) {
		fx := loaded(t, models.Task{ID: "t1"})
		fx.flow.Update(Msg{Op: OpEdit, TaskID: "gone", Task: &models.Task{ID: "gone"}})

		if got := ids(fx.flow.Tasks()); !reflect.DeepEqual(got, []string{"t1"}) {
			t.Errorf("expected list unchanged, got %v", got)
		}
	})
}
