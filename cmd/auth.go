package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/taskx/internal/login"
	"github.com/desertthunder/taskx/internal/prompt"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/shared"
	"github.com/desertthunder/taskx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// navigator records the last navigation a flow requested.
type navigator struct {
	last *router.Navigation
}

func (n *navigator) Navigate(nav router.Navigation) { n.last = &nav }

// arrived reports whether the last navigation targeted route.
func (n *navigator) arrived(route router.Route) bool {
	return n.last != nil && n.last.Route == route
}

func (r *Runner) confirmer(yes bool) prompt.Confirmer {
	if yes {
		return prompt.Static(true)
	}
	return prompt.NewTerminal(r.input, r.output)
}

// Login runs the login flow: check the email, confirm creation when unknown, then store the user.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		var err error
		if email, err = r.readLine("Email: "); err != nil {
			return err
		}
	}

	store, err := r.session()
	if err != nil {
		return err
	}

	nav := &navigator{}
	flow := login.New(r.gateway(), store, nav,
		login.WithLogger(r.logger),
		login.WithName(cmd.String("name")),
	)

	check := flow.Submit(email)
	if check == nil {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, flow.FieldError())
	}

	msg := check(ctx)
	flow.Update(msg)

	if flow.State() == login.Confirming {
		ok, err := r.confirmer(cmd.Bool("yes")).Confirm(ctx, *flow.Prompt())
		if err != nil {
			return err
		}

		register := flow.Answer(ok)
		if register == nil {
			return fmt.Errorf("%w: %s", shared.ErrUserNotCreated, flow.Email())
		}
		msg = register(ctx)
		flow.Update(msg)
	}

	if flow.State() == login.Failed {
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, flow.Err(), msg.Err)
	}

	user := store.Current()
	if !nav.arrived(router.Tasks) || user == nil {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, flow.Email())
	}

	return r.writePlain("✓ Logged in as %s (%s)\n", user.DisplayName(), user.Email)
}

func (r *Runner) readLine(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Logout clears the stored user.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	if !store.IsLoggedIn() {
		return r.writePlain("Not logged in\n")
	}

	tasks.New(r.gateway(), store, &navigator{}, tasks.WithLogger(r.logger)).Logout()
	r.logger.Debug("session cleared")
	return r.writePlain("✓ Logged out\n")
}

// Whoami prints the current user.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	store, err := r.session()
	if err != nil {
		return err
	}

	user := store.Current()
	if user == nil {
		return fmt.Errorf("%w: run 'taskx login'", shared.ErrNotAuthenticated)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	r.writePlain("%s\n", user.DisplayName())
	r.writePlain("Email: %s\n", user.Email)
	return r.writePlain("ID:    %s\n", user.ID)
}

// Status checks backend health by calling the /health endpoint.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	api := r.gateway()
	r.logger.Info("checking backend status", "url", api.BaseURL())

	health, err := api.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Service is healthy\n")
	r.writePlain("URL:    %s\n", api.BaseURL())
	return r.writePlain("Status: %s\n", health.Status)
}
