package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-validate the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		snap, err := session.Refresh(cmd.Context())
		if err != nil {
			if sdk.IsAuthentication(err) {
				return fmt.Errorf("credential is no longer valid; run `vaultctl auth login`")
			}
			return fmt.Errorf("refresh failed: %w", err)
		}

		if snap.Identity != nil {
			pterm.Success.Printf("Session refreshed for %s (%s)\n", snap.Identity.DisplayName, snap.Identity.Email)
		} else {
			pterm.Info.Printf("Session phase: %s\n", snap.Phase)
		}
		return nil
	},
}
