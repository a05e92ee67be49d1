package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskx/internal/login"
	"github.com/desertthunder/taskx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoginResult MsgKind = iota
	MsgTasksResult
)

// loginResultMsg is the constructor for [MsgLoginResult]
func loginResultMsg(m login.Msg) Msg {
	return Msg{kind: MsgLoginResult, data: m}
}

// tasksResultMsg is the constructor for [MsgTasksResult]
func tasksResultMsg(m tasks.Msg) Msg {
	return Msg{kind: MsgTasksResult, data: m}
}
