// Package models defines the entities exchanged with the task backend.
//
// The package contains two categories of types:
//
// 1. Entities, shared by the client and the reference backend:
//   - [User] : an identity asserted by the backend, remembered by the session store
//   - [Task] : a to-do item owned by exactly one user
//
// 2. Wire payloads and envelopes for the JSON API:
//   - [TaskInput] : create payload
//   - [TaskChanges] : partial update payload; nil fields are omitted
//   - [CheckUserResponse], [RegisterUserResponse], [TaskResponse], [MessageResponse]
//
// Task ownership is never embedded client-side; every request is scoped by the user id in the URL.
package models
