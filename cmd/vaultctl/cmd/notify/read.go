package notify

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Show a notification and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), requirement, "notify read"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		notification, token, err := api.GetNotification(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read notification: %w", err)
		}

		pterm.DefaultSection.Println(notification.Subject)
		fmt.Println(notification.Body)

		if notification.Read {
			return nil
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceNotification, ID: notification.ID},
			Payload:       sdk.MarkNotificationReadPayload{Read: true},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		pterm.Success.Println("Marked as read")
		return nil
	},
}
