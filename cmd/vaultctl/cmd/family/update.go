package family

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var updateName string

var updateCmd = &cobra.Command{
	Use:   "update <family-id>",
	Short: "Rename a family",
	Long: `Renames a family using the read-then-write protocol: the family is
fetched first, its version token is attached to the write, and a concurrent
modification by another editor is reported instead of silently overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), updateRequirement, "family update"); err != nil {
			return err
		}
		if updateName == "" {
			return fmt.Errorf("--name is required")
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		family, token, err := api.GetFamily(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read family: %w", err)
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceFamily, ID: family.ID},
			Payload:       sdk.UpdateFamilyPayload{Name: updateName},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Renamed family %s to %q\n", family.ID, updateName)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "New family name")
}
