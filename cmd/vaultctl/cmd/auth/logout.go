package auth

import (
	"fmt"

	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from Doc-Vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		// Remote revocation is best-effort; local state clears regardless.
		session.Logout(cmd.Context())

		fmt.Println("Logged out successfully")
		return nil
	},
}
