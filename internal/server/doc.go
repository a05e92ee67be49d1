// Package server provides the reference HTTP backend used for local development and integration tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] "METHOD /path/{param}" patterns.
// Middleware wraps the whole mux so CORS preflights and unknown routes are logged too.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
//   - [APIHandler] : auth check/register and per-user task CRUD over SQLite
//   - [HealthHandler] : GET /health with a database ping
//
// Errors are JSON {"message": ...}: 400 for invalid input, 404 for unknown users or tasks,
// 409 for duplicate registration.
package server
