// package prompt describes yes/no confirmations shared by the login and task flows
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Request is a confirmation to show the user.
type Request struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

// CreateUser builds the registration confirmation for email.
func CreateUser(email string) Request {
	return Request{
		Title:       "Create user?",
		Message:     fmt.Sprintf("No user found for %s. Do you want to create it?", email),
		ConfirmText: "Create",
		CancelText:  "Cancel",
	}
}

// DeleteTask builds the delete confirmation naming title.
func DeleteTask(title string) Request {
	return Request{
		Title:       "Delete task",
		Message:     fmt.Sprintf("Are you sure you want to delete %q?", title),
		ConfirmText: "Delete",
		CancelText:  "Cancel",
	}
}

// Confirmer answers a [Request].
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}

// Static always answers with its value (used for --yes).
type Static bool

func (s Static) Confirm(context.Context, Request) (bool, error) {
	return bool(s), nil
}

// Terminal asks on a line-oriented reader. Only "y" and "yes" (any case) confirm; EOF declines.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal creates a [Terminal] on stdin/stdout when in or out is nil.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{In: in, Out: out}
}

func (t *Terminal) Confirm(ctx context.Context, req Request) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := fmt.Fprintf(t.Out, "%s\n%s [%s/%s]: ", req.Title, req.Message, confirmKey(req), cancelKey(req)); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func confirmKey(req Request) string {
	if req.ConfirmText == "" {
		return "y"
	}
	return "y=" + strings.ToLower(req.ConfirmText)
}

func cancelKey(req Request) string {
	if req.CancelText == "" {
		return "N"
	}
	return "N=" + strings.ToLower(req.CancelText)
}
