package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/taskx/internal/formatter"
	"github.com/desertthunder/taskx/internal/models"
	"github.com/desertthunder/taskx/internal/router"
	"github.com/desertthunder/taskx/internal/session"
	"github.com/desertthunder/taskx/internal/shared"
	"github.com/desertthunder/taskx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// taskFlow enters the tasks route through its guard and returns a flow for the current user.
func (r *Runner) taskFlow() (*tasks.Flow, *session.Store, error) {
	store, err := r.session()
	if err != nil {
		return nil, nil, err
	}

	nav := &navigator{}
	if !router.New(store, nav).Enter(router.To(router.Tasks)) {
		r.logger.Debug("tasks route denied", "redirect", nav.last)
		return nil, nil, fmt.Errorf("%w: run 'taskx login'", shared.ErrNotAuthenticated)
	}

	return tasks.New(r.gateway(), store, nav, tasks.WithLogger(r.logger)), store, nil
}

// run executes c and applies its result, surfacing the underlying error.
func run(ctx context.Context, flow *tasks.Flow, c tasks.Cmd) error {
	msg := c(ctx)
	flow.Update(msg)
	if msg.Err != nil {
		return fmt.Errorf("%s: %w", flow.Err(), msg.Err)
	}
	return nil
}

// loadedFlow is [Runner.taskFlow] with the list already loaded.
func (r *Runner) loadedFlow(ctx context.Context) (*tasks.Flow, *session.Store, error) {
	flow, store, err := r.taskFlow()
	if err != nil {
		return nil, nil, err
	}
	if err := run(ctx, flow, flow.Load()); err != nil {
		return nil, nil, err
	}
	return flow, store, nil
}

func findTask(flow *tasks.Flow, id string) (models.Task, error) {
	if id == "" {
		return models.Task{}, fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}
	for _, t := range flow.Tasks() {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
}

func (r *Runner) printTask(t models.Task) {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	r.writePlain("%s %s  %s\n", mark, t.ID, t.Title)
	if t.Description != "" {
		r.writePlain("      %s\n", t.Description)
	}
}

// TasksList prints the current user's tasks.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	pending, completed := cmd.Bool("pending"), cmd.Bool("completed")
	if pending && completed {
		return fmt.Errorf("%w: --pending and --completed are exclusive", shared.ErrInvalidFlag)
	}

	flow, _, err := r.loadedFlow(ctx)
	if err != nil {
		return err
	}

	list := flow.Tasks()
	switch {
	case pending:
		list = flow.Pending()
	case completed:
		list = flow.Completed()
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}

	if len(list) == 0 {
		return r.writePlain("No tasks\n")
	}
	for _, t := range list {
		r.printTask(t)
	}
	return r.writePlain("\n%d pending, %d completed\n", flow.PendingCount(), flow.CompletedCount())
}

// TasksAdd creates a task.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	flow, _, err := r.taskFlow()
	if err != nil {
		return err
	}

	create := flow.Create(models.TaskInput{
		Title:       cmd.StringArg("title"),
		Description: cmd.String("description"),
	})
	if create == nil {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if err := run(ctx, flow, create); err != nil {
		return err
	}

	created := flow.Tasks()[0]
	r.logger.Debug("task created", "id", created.ID)
	r.writePlain("✓ Created task %s\n", created.ID)
	r.printTask(created)
	return nil
}

// TasksToggle flips a task's completed flag.
func (r *Runner) TasksToggle(ctx context.Context, cmd *cli.Command) error {
	flow, _, err := r.loadedFlow(ctx)
	if err != nil {
		return err
	}

	task, err := findTask(flow, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if err := run(ctx, flow, flow.Toggle(task)); err != nil {
		return err
	}

	updated, err := findTask(flow, task.ID)
	if err != nil {
		return err
	}
	r.printTask(updated)
	return nil
}

// TasksEdit changes a task's title and/or description.
func (r *Runner) TasksEdit(ctx context.Context, cmd *cli.Command) error {
	if !cmd.IsSet("title") && !cmd.IsSet("description") {
		return fmt.Errorf("%w: --title or --description", shared.ErrMissingArgument)
	}

	flow, _, err := r.loadedFlow(ctx)
	if err != nil {
		return err
	}

	task, err := findTask(flow, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	title, description := task.Title, task.Description
	if cmd.IsSet("title") {
		title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		description = cmd.String("description")
	}

	edit := flow.Edit(task, title, description)
	if edit == nil {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if err := run(ctx, flow, edit); err != nil {
		return err
	}

	updated, err := findTask(flow, task.ID)
	if err != nil {
		return err
	}
	r.printTask(updated)
	return nil
}

// TasksRemove deletes a task once the user confirms.
func (r *Runner) TasksRemove(ctx context.Context, cmd *cli.Command) error {
	flow, _, err := r.loadedFlow(ctx)
	if err != nil {
		return err
	}

	task, err := findTask(flow, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	flow.RequestDelete(task)
	ok, err := r.confirmer(cmd.Bool("yes")).Confirm(ctx, *flow.Prompt())
	if err != nil {
		return err
	}

	remove := flow.ResolveDelete(ok)
	if remove == nil {
		return r.writePlain("Cancelled\n")
	}
	if err := run(ctx, flow, remove); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %q\n", task.Title)
}

// TasksExport writes the current user's tasks in the requested format.
func (r *Runner) TasksExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	flow, store, err := r.loadedFlow(ctx)
	if err != nil {
		return err
	}

	export := &formatter.TaskExport{Owner: *store.Current(), Tasks: flow.Tasks()}

	if cmd.String("output") == "-" {
		data, err := formatter.Export(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("tasks exported", "path", path, "format", format, "count", len(export.Tasks))
	return r.writePlain("✓ Exported %d tasks to %s\n", len(export.Tasks), path)
}
