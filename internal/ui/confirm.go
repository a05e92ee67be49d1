package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/taskx/internal/prompt"
)

// renderConfirm draws req as a bordered dialog with y/n help.
func renderConfirm(req prompt.Request, keys keyMap, h help.Model) string {
	yes := key.NewBinding(key.WithKeys("y"), key.WithHelp("y", orDefault(req.ConfirmText, "yes")))
	no := key.NewBinding(key.WithKeys("n"), key.WithHelp("n/esc", orDefault(req.CancelText, "no")))

	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		styles.warn.Bold(true).Render(req.Title),
		req.Message,
		h.ShortHelpView([]key.Binding{yes, no, keys.abort}),
	)
	return styles.dialog.Render(body)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
