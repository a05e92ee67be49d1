// package services defines the gateway interfaces for the task backend
package services

import (
	"context"

	"github.com/desertthunder/taskx/internal/models"
)

// AuthGateway checks and registers users by email.
type AuthGateway interface {
	// CheckUser asks the backend whether a user with this email exists.
	CheckUser(ctx context.Context, email string) (*models.CheckUserResponse, error)

	// RegisterUser creates a user. An empty name is omitted from the request.
	RegisterUser(ctx context.Context, email, name string) (*models.RegisterUserResponse, error)
}

// TaskGateway performs task CRUD for a single user.
type TaskGateway interface {
	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)

	// CreateTask creates a task; the server assigns the id and completed=false.
	CreateTask(ctx context.Context, userID string, in models.TaskInput) (*models.TaskResponse, error)

	// UpdateTask sends any subset of mutable fields.
	UpdateTask(ctx context.Context, userID, taskID string, changes models.TaskChanges) (*models.TaskResponse, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, userID, taskID string) (*models.MessageResponse, error)
}

// Gateway is the full backend surface used by the client.
type Gateway interface {
	AuthGateway
	TaskGateway
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}
