// Package nav defines the routes of the dashboard and the navigation
// collaborator page controllers use to move between them.
package nav

import (
	"fmt"
	"slices"
	"sync"
)

// Route is a dashboard view path.
type Route string

// The five views of the dashboard.
const (
	Upload     Route = "/image-upload-dashboard"
	Results    Route = "/classification-results"
	History    Route = "/classification-history"
	Categories Route = "/category-management"
	Settings   Route = "/user-profile-settings"
)

// Routes lists every known route in menu order.
func Routes() []Route {
	return []Route{Upload, Results, History, Categories, Settings}
}

// Navigator moves the UI to route, carrying an optional payload.
type Navigator interface {
	NavigateTo(route Route, payload any) error
}

// Func adapts a function to Navigator.
type Func func(route Route, payload any) error

// NavigateTo calls f.
func (f Func) NavigateTo(route Route, payload any) error {
	return f(route, payload)
}

// RouteError is returned for a route outside Routes.
type RouteError struct {
	Route Route
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("unknown route: %s", e.Route)
}

// Visit is one recorded navigation.
type Visit struct {
	Route   Route
	Payload any
}

// Recorder keeps every navigation in order. The CLI uses it to decide what
// to render next; tests use it to assert on navigation.
type Recorder struct {
	mu     sync.Mutex
	visits []Visit
}

// NavigateTo records the visit.
func (r *Recorder) NavigateTo(route Route, payload any) error {
	if !slices.Contains(Routes(), route) {
		return &RouteError{Route: route}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, Visit{Route: route, Payload: payload})
	return nil
}

// Visits returns a copy of the recorded navigation.
func (r *Recorder) Visits() []Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.visits)
}

// Last returns the latest visit, if any.
func (r *Recorder) Last() (Visit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.visits) == 0 {
		return Visit{}, false
	}
	return r.visits[len(r.visits)-1], true
}
