package client

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/pkg/sdk"
)

// Mutate runs one guarded write through the gateway and translates the
// outcome for the terminal. A conflict is reported as stale data with
// re-fetch guidance, never retried here; the gateway contract forbids
// retrying a token that already conflicted.
func (p *Provider) Mutate(ctx context.Context, req sdk.MutationRequest) error {
	gateway, err := p.Gateway(ctx)
	if err != nil {
		return err
	}

	outcome := gateway.Mutate(ctx, req)
	switch outcome.State {
	case sdk.OutcomeCommitted:
		return nil
	case sdk.OutcomeConflicted:
		pterm.Warning.Printf("%s was modified by someone else since you read it.\n", req.Ref)
		pterm.Info.Println("Re-run the command; it will pick up the latest version.")
		// The next read supplies a fresh token, so clear the conflict mark.
		gateway.Forget(req.Ref)
		return fmt.Errorf("stale data for %s", req.Ref)
	default:
		switch sdk.KindOf(outcome.Err) {
		case sdk.KindAuthentication:
			pterm.Warning.Println("Your session has expired; run `vaultctl auth login`.")
		case sdk.KindAuthorization:
			pterm.Error.Println("Your role does not permit this operation.")
		case sdk.KindValidation:
			pterm.Error.Println("The server rejected the input.")
		}
		return outcome.Err
	}
}
