// package models defines the data model shared by the task client and its reference backend
package models

import (
	"fmt"
	"strings"
)

// User is the identity the backend returns on check or register.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the user's name, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Task is a single to-do item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Normalize returns a copy with title and description trimmed.
func (in TaskInput) Normalize() TaskInput {
	return TaskInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
}

// Validate checks that the title is non-empty after trimming.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// TaskChanges is a partial update; only non-nil fields are sent.
type TaskChanges struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil
}

// Validate rejects a title that is present but blank.
func (c TaskChanges) Validate() error {
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// Apply returns t with the set fields of c applied.
func (c TaskChanges) Apply(t Task) Task {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Completed != nil {
		t.Completed = *c.Completed
	}
	return t
}

// CompletedChange builds the patch that sets completed to v.
func CompletedChange(v bool) TaskChanges {
	return TaskChanges{Completed: &v}
}

// ContentChange builds the patch that replaces title and description.
func ContentChange(title, description string) TaskChanges {
	return TaskChanges{Title: &title, Description: &description}
}

// CheckUserRequest is the body of POST /auth/check.
type CheckUserRequest struct {
	Email string `json:"email"`
}

// CheckUserResponse is returned by POST /auth/check.
type CheckUserResponse struct {
	Exists bool  `json:"exists"`
	User   *User `json:"user,omitempty"`
}

// RegisterUserRequest is the body of POST /auth/register.
type RegisterUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// RegisterUserResponse is returned by POST /auth/register.
type RegisterUserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// TaskResponse is returned by task create and update.
type TaskResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

// MessageResponse carries a bare message (delete results and error bodies).
type MessageResponse struct {
	Message string `json:"message"`
}
