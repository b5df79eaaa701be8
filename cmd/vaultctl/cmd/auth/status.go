package auth

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		snap := session.Snapshot()

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Session phase: %s\n", snap.Phase)

		if snap.Phase != sdk.PhaseAuthenticated {
			if snap.Phase == sdk.PhaseExpired && snap.ReturnTo != "" {
				pterm.Info.Printf("Session expired while viewing %s\n", snap.ReturnTo)
			}
			pterm.Info.Println("Run `vaultctl auth login` to authenticate.")
			return nil
		}

		if creds := session.Credentials(); creds != nil {
			pterm.Info.Printf("Token expires at: %s\n", creds.ExpiresAt.Format(time.RFC1123))
		}

		identity := snap.Identity
		pterm.DefaultSection.Println("Identity")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tFAMILY")
		family := identity.FamilyID
		if family == "" {
			family = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", identity.ID, identity.Email, identity.DisplayName, identity.Role, family)
		w.Flush()

		pterm.DefaultSection.Println("Permissions")
		fmt.Println(strings.Join(identity.Permissions, ", "))
		return nil
	},
}
