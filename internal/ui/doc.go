// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two screens, resolved through the router so the session guard applies:
//  1. login : email field, existence check, and a "Create user?" confirmation
//  2. tasks : the current user's list with add, inline edit, toggle, delete and logout
//
// [App] implements bubbletea's Init/Update/View and [router.Navigator]. Flow commands run
// as tea.Cmds and their results come back through the [Msg] union, so all state changes
// happen on the update loop.
//
// Keyboard navigation uses vim-style bindings with contextual help via charmbracelet/bubbles/help.
package ui
