package profile

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), requirement, "profile show"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		profile, token, err := api.GetProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}

		pterm.DefaultSection.Println(profile.DisplayName)
		pterm.Info.Printf("ID: %s\n", profile.ID)
		pterm.Info.Printf("Email: %s\n", profile.Email)
		pterm.Info.Printf("Role: %s\n", profile.Role)
		if profile.FamilyID != "" {
			pterm.Info.Printf("Family: %s\n", profile.FamilyID)
		}
		pterm.Info.Printf("Updated: %s\n", profile.UpdatedAt.Format(time.RFC1123))
		pterm.Info.Printf("Version token: %s\n", token)
		return nil
	},
}
