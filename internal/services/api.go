// HTTP implementation of [Gateway] for the task backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "http://127.0.0.1:3000"
	requestIDHeader = "X-Request-ID"
)

var _ Gateway = (*APIService)(nil)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s %s: status %d: %s", shared.ErrAPIRequest, e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: %s %s: status %d", shared.ErrAPIRequest, e.Method, e.Path, e.StatusCode)
}

// Unwrap lets errors.Is match [shared.ErrAPIRequest].
func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// IsStatus reports whether err is an [*APIError] with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// APIService provides the task backend operations over HTTP.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures an [APIService].
type Option func(*APIService)

// WithRateLimit paces requests to rps per second with the given burst. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *APIService) {
		if rps <= 0 {
			a.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *APIService) { a.logger = l }
}

// NewAPIService creates a new API service instance for the task backend.
func NewAPIService(baseURL string, client *http.Client, opts ...Option) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the backend base URL without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// CheckUser calls POST /auth/check.
func (a *APIService) CheckUser(ctx context.Context, email string) (*models.CheckUserResponse, error) {
	var resp models.CheckUserResponse
	if err := a.doRequest(ctx, http.MethodPost, "/auth/check", models.CheckUserRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterUser calls POST /auth/register.
func (a *APIService) RegisterUser(ctx context.Context, email, name string) (*models.RegisterUserResponse, error) {
	var resp models.RegisterUserResponse
	body := models.RegisterUserRequest{Email: email, Name: name}
	if err := a.doRequest(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks calls GET /users/{userId}/tasks.
func (a *APIService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := a.doRequest(ctx, http.MethodGet, tasksPath(userID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask calls POST /users/{userId}/tasks.
func (a *APIService) CreateTask(ctx context.Context, userID string, in models.TaskInput) (*models.TaskResponse, error) {
	var resp models.TaskResponse
	if err := a.doRequest(ctx, http.MethodPost, tasksPath(userID), in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask calls PATCH /users/{userId}/tasks/{taskId}.
func (a *APIService) UpdateTask(ctx context.Context, userID, taskID string, changes models.TaskChanges) (*models.TaskResponse, error) {
	var resp models.TaskResponse
	if err := a.doRequest(ctx, http.MethodPatch, taskPath(userID, taskID), changes, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask calls DELETE /users/{userId}/tasks/{taskId}.
func (a *APIService) DeleteTask(ctx context.Context, userID, taskID string) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := a.doRequest(ctx, http.MethodDelete, taskPath(userID, taskID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health calls GET /health.
func (a *APIService) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := a.doRequest(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func tasksPath(userID string) string {
	return "/users/" + url.PathEscape(userID) + "/tasks"
}

func taskPath(userID, taskID string) string {
	return tasksPath(userID) + "/" + url.PathEscape(taskID)
}

// doRequest sends body as JSON (when non-nil) and decodes a 2xx response into result (when non-nil).
func (a *APIService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", shared.ErrAPIRequest, err)
		}
	}

	a.logger.Debug("api request", "method", method, "path", endpoint, "request_id", requestID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: endpoint, StatusCode: resp.StatusCode, Message: errorMessage(data)}
		a.logger.Debug("api error", "method", method, "path", endpoint, "status", resp.StatusCode, "request_id", requestID)
		return apiErr
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// errorMessage extracts {"message"} or {"detail"} from an error body, falling back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, s := range []string{payload.Message, payload.Detail, payload.Error} {
			if s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(body))
}
