package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not logged in")
	ErrUserNotCreated   = fmt.Errorf("user was not created")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTaskNotFound       = fmt.Errorf("task not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUserExists         = fmt.Errorf("user already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
