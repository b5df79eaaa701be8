package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	useDeviceFlow bool
	oidcIssuer    string
	oidcClientID  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Doc-Vault",
	Long: `Authenticates with the Doc-Vault server.

Two methods are supported:
1. Password login (default): email and password, prompted interactively
   unless supplied via --email and --password.
2. Device login: an OIDC device authorization flow for environments where
   typing a password is unsuitable. Use --device with --issuer and
   --client-id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		session, err := cfg.ClientProvider.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		if useDeviceFlow {
			return deviceLogin(cmd, session)
		}

		email, password := loginEmail, loginPassword
		if email == "" || password == "" {
			if cfg.NonInteractive {
				return fmt.Errorf("--email and --password are required in non-interactive mode")
			}
			if email == "" {
				email, err = pterm.DefaultInteractiveTextInput.Show("Email")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
			}
		}

		identity, err := session.Login(cmd.Context(), email, password)
		if err != nil {
			if sdk.IsAuthentication(err) {
				return fmt.Errorf("login failed: invalid email or password")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		pterm.Success.Printf("Logged in as %s (%s, role %s)\n", identity.DisplayName, identity.Email, identity.Role)
		if route := session.ConsumeReturnTo(); route != "" {
			pterm.Info.Printf("You were viewing %s when your session expired.\n", route)
		}
		return nil
	},
}

func deviceLogin(cmd *cobra.Command, session *sdk.SessionManager) error {
	if oidcIssuer == "" || oidcClientID == "" {
		return fmt.Errorf("--issuer and --client-id are required for device login")
	}

	meta, creds, err := sdk.LoginWithDeviceCode(cmd.Context(), oidcIssuer, oidcClientID, func(prompt sdk.DeviceAuthPrompt) {
		pterm.DefaultSection.Println("Device Authorization")
		pterm.Info.Printf("Your user code is: %s\n", prompt.UserCode)
		pterm.Info.Printf("Visit %s to authorize this device.\n", prompt.VerificationURI)
		if prompt.VerificationURIComplete != "" {
			pterm.Info.Printf("Direct link: %s\n", prompt.VerificationURIComplete)
		}
		pterm.Info.Println("Waiting for authorization...")
	})
	if err != nil {
		return err
	}

	snap, err := session.AdoptCredentials(cmd.Context(), creds)
	if err != nil {
		return fmt.Errorf("device login succeeded but identity fetch failed: %w", err)
	}

	if snap.Identity != nil {
		pterm.Success.Printf("Logged in as %s (%s)\n", snap.Identity.DisplayName, snap.Identity.Email)
	} else {
		pterm.Success.Printf("Logged in as %s (%s)\n", meta.Subject, meta.Email)
	}
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address for password login")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password for password login")
	loginCmd.Flags().BoolVar(&useDeviceFlow, "device", false, "Use the OIDC device authorization flow")
	loginCmd.Flags().StringVar(&oidcIssuer, "issuer", "", "OIDC issuer URL for device login")
	loginCmd.Flags().StringVar(&oidcClientID, "client-id", "", "OIDC client ID for device login")
}
