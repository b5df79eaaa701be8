package sdk

import "sync"

// Navigator performs the redirect side effects a guard may demand. Keeping
// navigation behind an interface keeps the decision logic testable without a
// rendering harness.
type Navigator interface {
	// NavigateToLogin redirects to the login entry point, carrying the
	// originally requested location so login can return the user there.
	NavigateToLogin(from string)
	// NavigateToForbidden redirects to the forbidden page.
	NavigateToForbidden()
}

// RouteGuard applies access decisions at one protected view boundary. It
// receives the session snapshot explicitly on every evaluation; there is no
// ambient session lookup. Session transitions can fire the evaluation several
// times, so Apply is idempotent: re-running it with an unchanged decision and
// location issues no additional navigation.
type RouteGuard struct {
	nav Navigator

	mu           sync.Mutex
	applied      bool
	lastDecision AccessDecision
	lastLocation string
}

// NewRouteGuard creates a guard that issues redirects through nav.
func NewRouteGuard(nav Navigator) *RouteGuard {
	return &RouteGuard{nav: nav}
}

// Apply evaluates req against snap for the view at location and performs at
// most one navigation per distinct (decision, location) pair. The returned
// decision tells the caller what to render: the content on DecisionAllow, a
// neutral placeholder on DecisionPending, nothing otherwise.
func (g *RouteGuard) Apply(snap Snapshot, req AccessRequirement, location string) AccessDecision {
	decision := Evaluate(snap, req)

	g.mu.Lock()
	if g.applied && decision == g.lastDecision && location == g.lastLocation {
		g.mu.Unlock()
		return decision
	}
	g.applied = true
	g.lastDecision = decision
	g.lastLocation = location
	g.mu.Unlock()

	switch decision {
	case DecisionRedirectLogin:
		g.nav.NavigateToLogin(location)
	case DecisionRedirectForbidden:
		g.nav.NavigateToForbidden()
	}
	return decision
}
