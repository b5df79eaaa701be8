package family

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <family-id>",
	Short: "Delete a family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), deleteRequirement, "family delete"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		family, token, err := api.GetFamily(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read family: %w", err)
		}

		if !cfg.NonInteractive {
			confirmed, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete family %q and all its documents?", family.Name))
			if err != nil {
				return err
			}
			if !confirmed {
				pterm.Info.Println("Aborted.")
				return nil
			}
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceFamily, ID: family.ID},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Deleted family %s\n", family.ID)
		return nil
	},
}
