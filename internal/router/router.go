// package router maps locations to screens and gates protected screens behind a session
package router

import (
	"net/url"
	"strings"
)

// Route names a screen.
type Route string

const (
	Login Route = "login"
	Tasks Route = "tasks"
)

// ReturnURLParam carries the originally requested location on a guard redirect.
const ReturnURLParam = "returnUrl"

// Navigation is a request to show a screen.
type Navigation struct {
	Route  Route
	URL    string
	Params map[string]string
}

// To builds a [Navigation] for route with URL "/<route>".
func To(route Route) Navigation {
	return Navigation{Route: route, URL: "/" + string(route)}
}

// Navigator performs the screen switch for a [Navigation].
type Navigator interface {
	Navigate(Navigation)
}

// Session is the read side of the session store used by guards.
type Session interface {
	IsLoggedIn() bool
}

// CanActivate decides whether target may be entered.
type CanActivate func(target Navigation) bool

// Guard allows entry when session has a user. Otherwise it denies and
// redirects to login carrying the requested URL as [ReturnURLParam].
func Guard(session Session, nav Navigator) CanActivate {
	return func(target Navigation) bool {
		if session.IsLoggedIn() {
			return true
		}
		nav.Navigate(Navigation{
			Route:  Login,
			URL:    "/" + string(Login),
			Params: map[string]string{ReturnURLParam: target.URL},
		})
		return false
	}
}

// Router resolves locations to routes and runs each route's guards.
type Router struct {
	guards map[Route][]CanActivate
}

// New creates a [Router] where [Tasks] is protected by [Guard].
func New(session Session, nav Navigator) *Router {
	return &Router{
		guards: map[Route][]CanActivate{
			Tasks: {Guard(session, nav)},
		},
	}
}

// Resolve maps a location such as "/tasks?x=1" to a [Navigation].
// Empty and unrecognized locations resolve to [Login].
func (r *Router) Resolve(location string) Navigation {
	u, err := url.Parse(location)
	if err != nil {
		return To(Login)
	}

	nav := Navigation{Route: Login, URL: location}
	switch Route(strings.Trim(u.Path, "/")) {
	case Tasks:
		nav.Route = Tasks
	case Login:
	default:
		return To(Login)
	}

	if q := u.Query(); len(q) > 0 {
		nav.Params = make(map[string]string, len(q))
		for k := range q {
			nav.Params[k] = q.Get(k)
		}
	}
	return nav
}

// Enter runs target's guards in order and reports whether all allowed it.
func (r *Router) Enter(target Navigation) bool {
	for _, guard := range r.guards[target.Route] {
		if !guard(target) {
			return false
		}
	}
	return true
}

// Protected reports whether route has guards.
func (r *Router) Protected(route Route) bool {
	return len(r.guards[route]) > 0
}
