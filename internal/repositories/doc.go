// Package repositories implements SQLite persistence for the client and the reference backend.
//
// Key Implementations:
//   - [StateRepository] : client-side key/value state (the remembered user)
//   - [UserRepository] : backend users, unique by lower-cased email
//   - [TaskRepository] : backend tasks scoped to a user, listed newest first
//
// Backend rows carry a sequence number from a dedicated "<table>_sequence" table.
// [NextSequence] increments it atomically; task lists are ordered by it.
// Users and tasks are soft-deleted via deleted_at and excluded from queries.
package repositories
