package user

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var targetFamilyID string

var reassignCmd = &cobra.Command{
	Use:   "reassign <user-id>",
	Short: "Move a user to another family",
	Long: `Moves a user into the family given by --family. The user is read
first and the write carries that read's version token, so a concurrent
reassignment by another administrator is reported as a conflict.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), reassignRequirement, "user reassign"); err != nil {
			return err
		}
		if targetFamilyID == "" {
			return fmt.Errorf("--family is required")
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		account, token, err := api.GetUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read user: %w", err)
		}
		if account.FamilyID == targetFamilyID {
			pterm.Info.Printf("User %s is already in family %s\n", account.ID, targetFamilyID)
			return nil
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceUser, ID: account.ID},
			Payload:       sdk.ReassignUserPayload{FamilyID: targetFamilyID},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Moved user %s to family %s\n", account.ID, targetFamilyID)
		return nil
	},
}

func init() {
	reassignCmd.Flags().StringVar(&targetFamilyID, "family", "", "Destination family ID")
}
