// Package services implements the task gateway: a stateless request/response client for the task backend.
//
// # Gateway Interfaces
//
// [AuthGateway] covers identity (check whether an email exists, register a new user) and [TaskGateway]
// covers task CRUD scoped to a user id. [Gateway] combines both. Flows depend on the narrow interfaces so tests can
// substitute an in-memory fake.
//
// # HTTP Implementation
//
// [APIService] maps every operation to one JSON request:
//
//	POST   /auth/check                      {email}               → {exists, user?}
//	POST   /auth/register                   {email, name?}        → {message, user}
//	GET    /users/{userId}/tasks                                  → Task[]
//	POST   /users/{userId}/tasks            {title, description?} → {message, task}
//	PATCH  /users/{userId}/tasks/{taskId}   partial Task          → {message, task}
//	DELETE /users/{userId}/tasks/{taskId}                         → {message}
//
// Each request carries a fresh X-Request-ID. An optional [rate.Limiter] paces requests; it waits, it never retries.
//
// # Error Handling
//
// The gateway performs no interpretation, retry or backoff:
//   - transport failures wrap [shared.ErrAPIRequest]
//   - non-2xx responses return [*APIError], which also matches [shared.ErrAPIRequest] via errors.Is
package services
