package profile

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var displayName string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your display name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), requirement, "profile update"); err != nil {
			return err
		}
		if displayName == "" {
			return fmt.Errorf("--name is required")
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		profile, token, err := api.GetProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceProfile, ID: profile.ID},
			Payload:       sdk.UpdateProfilePayload{DisplayName: displayName},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		// The session identity is a wholesale replacement; refresh it so the
		// next command renders the new name.
		if session, err := cfg.ClientProvider.Session(cmd.Context()); err == nil {
			_, _ = session.Refresh(cmd.Context())
		}

		pterm.Success.Printf("Display name changed to %q\n", displayName)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&displayName, "name", "", "New display name")
}
