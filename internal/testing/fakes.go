package testing

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/shared"
)

// FakeGateway is an in-memory backend for flow tests.
//
// Set the *Err fields to make the matching call fail. Users are keyed by email; tasks by owner id, newest first.
type FakeGateway struct {
	mu     sync.Mutex
	users  map[string]models.User
	tasks  map[string][]models.Task
	nextID int

	CheckErr    error
	RegisterErr error
	ListErr     error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error

	// NilUserOnExists makes CheckUser answer exists=true without a user.
	NilUserOnExists bool

	CheckCalls    int
	RegisterCalls int
	ListCalls     int
	CreateCalls   int
	UpdateCalls   int
	DeleteCalls   int
}

// NewFakeGateway creates an empty [FakeGateway].
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{users: map[string]models.User{}, tasks: map[string][]models.Task{}}
}

// AddUser seeds a user and returns it.
func (f *FakeGateway) AddUser(u models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Email] = u
	return u
}

// AddTasks seeds tasks for userID in the given (server) order.
func (f *FakeGateway) AddTasks(userID string, tasks ...models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[userID] = append(f.tasks[userID], tasks...)
}

// StoredTasks returns a copy of the server-side list for userID.
func (f *FakeGateway) StoredTasks(userID string) []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Task(nil), f.tasks[userID]...)
}

func (f *FakeGateway) id(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

func (f *FakeGateway) CheckUser(_ context.Context, email string) (*models.CheckUserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CheckCalls++

	if f.CheckErr != nil {
		return nil, f.CheckErr
	}
	u, ok := f.users[email]
	if !ok {
		return &models.CheckUserResponse{Exists: false}, nil
	}
	if f.NilUserOnExists {
		return &models.CheckUserResponse{Exists: true}, nil
	}
	return &models.CheckUserResponse{Exists: true, User: &u}, nil
}

func (f *FakeGateway) RegisterUser(_ context.Context, email, name string) (*models.RegisterUserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++

	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	if _, ok := f.users[email]; ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserExists, email)
	}
	u := models.User{ID: f.id("user-"), Email: email, Name: name}
	f.users[email] = u
	return &models.RegisterUserResponse{Message: "user created", User: u}, nil
}

func (f *FakeGateway) ListTasks(_ context.Context, userID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++

	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Task{}, f.tasks[userID]...), nil
}

func (f *FakeGateway) CreateTask(_ context.Context, userID string, in models.TaskInput) (*models.TaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	task := models.Task{ID: f.id("task-"), Title: in.Title, Description: in.Description}
	f.tasks[userID] = append([]models.Task{task}, f.tasks[userID]...)
	return &models.TaskResponse{Message: "task created", Task: task}, nil
}

func (f *FakeGateway) UpdateTask(_ context.Context, userID, taskID string, changes models.TaskChanges) (*models.TaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++

	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	for i, t := range f.tasks[userID] {
		if t.ID == taskID {
			updated := changes.Apply(t)
			f.tasks[userID][i] = updated
			return &models.TaskResponse{Message: "task updated", Task: updated}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, taskID)
}

func (f *FakeGateway) DeleteTask(_ context.Context, userID, taskID string) (*models.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++

	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	list := f.tasks[userID]
	for i, t := range list {
		if t.ID == taskID {
			f.tasks[userID] = append(list[:i:i], list[i+1:]...)
			return &models.MessageResponse{Message: "task deleted"}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, taskID)
}

// RecordingNavigator records every navigation it is asked to perform.
type RecordingNavigator struct {
	mu    sync.Mutex
	Calls []router.Navigation
}

func (n *RecordingNavigator) Navigate(nav router.Navigation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Calls = append(n.Calls, nav)
}

// Last returns the most recent navigation and whether there was one.
func (n *RecordingNavigator) Last() (router.Navigation, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Calls) == 0 {
		return router.Navigation{}, false
	}
	return n.Calls[len(n.Calls)-1], true
}
