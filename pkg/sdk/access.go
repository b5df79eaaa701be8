package sdk

// AccessRequirement declares what a protected view demands. It is defined at
// the call site and never persisted. An empty AllowedRoles set admits any
// authenticated role.
type AccessRequirement struct {
	RequiresAuth bool
	AllowedRoles []Role
}

// AccessDecision is the result of evaluating a requirement against a session.
type AccessDecision int

const (
	// DecisionPending means the session is still bootstrapping; callers must
	// suspend rendering rather than redirect, or a refresh that would have
	// succeeded flashes through the login page.
	DecisionPending AccessDecision = iota
	// DecisionAllow renders the protected content.
	DecisionAllow
	// DecisionRedirectLogin sends the user to the login entry point.
	DecisionRedirectLogin
	// DecisionRedirectForbidden sends the user to the forbidden page.
	DecisionRedirectForbidden
)

func (d AccessDecision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectForbidden:
		return "redirect-forbidden"
	default:
		return "unknown"
	}
}

// Evaluate maps a session snapshot and an access requirement to a decision.
// It is pure and synchronous: no side effects, no network, the same inputs
// always yield the same decision.
func Evaluate(snap Snapshot, req AccessRequirement) AccessDecision {
	if snap.Phase == PhaseBootstrapping {
		return DecisionPending
	}
	if req.RequiresAuth && snap.Phase != PhaseAuthenticated {
		return DecisionRedirectLogin
	}
	if len(req.AllowedRoles) > 0 {
		if snap.Identity == nil || !roleAllowed(snap.Identity.Role, req.AllowedRoles) {
			return DecisionRedirectForbidden
		}
	}
	return DecisionAllow
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
