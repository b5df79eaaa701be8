package cmd

import (
	"fmt"
	"os"

	"github.com/pytact/docvault/cmd/vaultctl/cmd/auth"
	"github.com/pytact/docvault/cmd/vaultctl/cmd/docs"
	"github.com/pytact/docvault/cmd/vaultctl/cmd/family"
	"github.com/pytact/docvault/cmd/vaultctl/cmd/notify"
	"github.com/pytact/docvault/cmd/vaultctl/cmd/profile"
	"github.com/pytact/docvault/cmd/vaultctl/cmd/user"
	"github.com/pytact/docvault/cmd/vaultctl/internal/client"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var (
	serverURL      string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Doc-Vault CLI - family document vault client",
	Long: `vaultctl is the command-line interface for Doc-Vault, a role-gated
document vault for families. Use it to manage authentication, families,
users, documents and notifications.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DOCVAULT_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}

		provider := client.NewProvider(serverURL)
		if token := os.Getenv("DOCVAULT_TOKEN"); token != "" {
			provider.SetBearerToken(token)
		}

		cfg := &config.GlobalConfig{
			ServerURL:      serverURL,
			NonInteractive: nonInteractive,
			ClientProvider: provider,
		}
		cmd.SetContext(config.InjectConfig(cmd.Context(), cfg))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Doc-Vault API server URL")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via DOCVAULT_NON_INTERACTIVE=1)")
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(profile.ProfileCmd)
	rootCmd.AddCommand(family.FamilyCmd)
	rootCmd.AddCommand(user.UserCmd)
	rootCmd.AddCommand(docs.DocsCmd)
	rootCmd.AddCommand(notify.NotifyCmd)
}
