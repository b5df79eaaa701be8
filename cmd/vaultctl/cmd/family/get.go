package family

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <family-id>",
	Short: "Show one family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), readRequirement, "family get"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		family, token, err := api.GetFamily(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get family: %w", err)
		}

		pterm.DefaultSection.Println(family.Name)
		pterm.Info.Printf("ID: %s\n", family.ID)
		pterm.Info.Printf("Members: %d\n", family.MemberCount)
		pterm.Info.Printf("Updated: %s\n", family.UpdatedAt.Format(time.RFC1123))
		pterm.Info.Printf("Version token: %s\n", token)
		return nil
	},
}
