package client

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/pkg/sdk"
)

// termNavigator renders the CLI equivalents of the dashboard's redirect
// targets: a login hint instead of the login page, a refusal instead of the
// forbidden page.
type termNavigator struct{}

func (termNavigator) NavigateToLogin(from string) {
	pterm.Warning.Printf("Not logged in (needed for %s); run `vaultctl auth login`.\n", from)
}

func (termNavigator) NavigateToForbidden() {
	pterm.Error.Println("Your role does not permit this operation.")
}

// Guard evaluates the command's access requirement against the bootstrapped
// session before any network work. On anything but an allow it returns an
// error after the navigator has shown the way out, mirroring how the
// dashboard never renders a protected view it would redirect away from.
func (p *Provider) Guard(ctx context.Context, req sdk.AccessRequirement, location string) error {
	session, err := p.Session(ctx)
	if err != nil {
		return err
	}

	guard := sdk.NewRouteGuard(termNavigator{})
	switch decision := guard.Apply(session.Snapshot(), req, location); decision {
	case sdk.DecisionAllow:
		return nil
	case sdk.DecisionRedirectLogin:
		return fmt.Errorf("authentication required")
	case sdk.DecisionRedirectForbidden:
		return fmt.Errorf("insufficient role")
	default:
		return fmt.Errorf("session not ready (%s)", decision)
	}
}
