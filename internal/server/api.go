package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/repositories"
	"github.com/desertthunder/taskx/internal/shared"
)

const maxBodyBytes = 1 << 20

// Route patterns served by [APIHandler].
const (
	routeCheck    = "POST /auth/check"
	routeRegister = "POST /auth/register"
	routeList     = "GET /users/{userId}/tasks"
	routeCreate   = "POST /users/{userId}/tasks"
	routeUpdate   = "PATCH /users/{userId}/tasks/{taskId}"
	routeDelete   = "DELETE /users/{userId}/tasks/{taskId}"
)

// APIHandler serves the user and task endpoints over SQLite repositories.
type APIHandler struct {
	users  *repositories.UserRepository
	tasks  *repositories.TaskRepository
	logger *log.Logger
}

// NewAPIHandler creates an [APIHandler].
func NewAPIHandler(users *repositories.UserRepository, tasks *repositories.TaskRepository, logger *log.Logger) *APIHandler {
	return &APIHandler{users: users, tasks: tasks, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{routeCheck, routeRegister, routeList, routeCreate, routeUpdate, routeDelete}
}

// ServeHTTP dispatches on the pattern the mux matched.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case routeCheck:
		h.checkUser(w, r)
	case routeRegister:
		h.registerUser(w, r)
	case routeList:
		h.listTasks(w, r)
	case routeCreate:
		h.createTask(w, r)
	case routeUpdate:
		h.updateTask(w, r)
	case routeDelete:
		h.deleteTask(w, r)
	default:
		writeMessage(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandler) checkUser(w http.ResponseWriter, r *http.Request) {
	var req models.CheckUserRequest
	if !decode(w, r, &req) {
		return
	}

	email := shared.NormalizeEmail(req.Email)
	if !shared.ValidEmail(email) {
		writeMessage(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	user, err := h.users.GetByEmail(email)
	switch {
	case errors.Is(err, shared.ErrUserNotFound):
		writeJSON(w, http.StatusOK, models.CheckUserResponse{Exists: false})
	case err != nil:
		h.internal(w, r, err)
	default:
		writeJSON(w, http.StatusOK, models.CheckUserResponse{Exists: true, User: user})
	}
}

func (h *APIHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.Create(req.Email, req.Name)
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "a valid email is required")
	case errors.Is(err, shared.ErrUserExists):
		writeMessage(w, http.StatusConflict, "user already exists")
	case err != nil:
		h.internal(w, r, err)
	default:
		h.logger.Info("user created", "id", user.ID, "email", user.Email)
		writeJSON(w, http.StatusCreated, models.RegisterUserResponse{Message: "user created", User: *user})
	}
}

// owner resolves {userId}, writing 404 when the user does not exist.
func (h *APIHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.PathValue("userId")
	if _, err := h.users.Get(userID); err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
		} else {
			h.internal(w, r, err)
		}
		return "", false
	}
	return userID, true
}

func (h *APIHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(userID)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *APIHandler) createTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var in models.TaskInput
	if !decode(w, r, &in) {
		return
	}

	task, err := h.tasks.Create(userID, in)
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "title is required")
	case err != nil:
		h.internal(w, r, err)
	default:
		h.logger.Info("task created", "id", task.ID, "user", userID)
		writeJSON(w, http.StatusCreated, models.TaskResponse{Message: "task created", Task: *task})
	}
}

func (h *APIHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var changes models.TaskChanges
	if !decode(w, r, &changes) {
		return
	}
	if changes.Empty() {
		writeMessage(w, http.StatusBadRequest, "no fields to update")
		return
	}

	task, err := h.tasks.Update(userID, r.PathValue("taskId"), changes)
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "title cannot be empty")
	case errors.Is(err, shared.ErrTaskNotFound):
		writeMessage(w, http.StatusNotFound, "task not found")
	case err != nil:
		h.internal(w, r, err)
	default:
		writeJSON(w, http.StatusOK, models.TaskResponse{Message: "task updated", Task: *task})
	}
}

func (h *APIHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	taskID := r.PathValue("taskId")
	err := h.tasks.Delete(userID, taskID)
	switch {
	case errors.Is(err, shared.ErrTaskNotFound):
		writeMessage(w, http.StatusNotFound, "task not found")
	case err != nil:
		h.internal(w, r, err)
	default:
		h.logger.Info("task deleted", "id", taskID, "user", userID)
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "task deleted"})
	}
}

func (h *APIHandler) internal(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}

// decode reads a JSON body into v, writing 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{Message: message})
}
