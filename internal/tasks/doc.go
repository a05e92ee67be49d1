// Package tasks holds the task screen's state machine and reconciles the in-memory list with server results.
//
// # Core Operations
//
// [Flow] exposes one method per user intent. Each returns a [Cmd] that performs a single gateway request:
//
//  1. [Flow.Enter] : redirects to login without a session, otherwise loads
//  2. [Flow.Load] : replaces the whole list with the server's
//  3. [Flow.Create] : prepends the task the server returns
//  4. [Flow.Toggle] / [Flow.Edit] : replace the entry with the same id
//  5. [Flow.RequestDelete] + [Flow.ResolveDelete] : confirm, then remove by id
//
// # Results
//
// A [Cmd] runs off the UI goroutine and returns a [Msg]; [Flow.Update] applies it on the UI goroutine.
// Failures set the screen's single error slot and leave the list untouched. Nothing is retried.
//
// Without a current user every operation returns a nil [Cmd].
package tasks
