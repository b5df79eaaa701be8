package notify

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var unreadOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), requirement, "notify list"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		notifications, err := api.ListNotifications(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSUBJECT\tREAD\tCREATED")
		for _, n := range notifications {
			if unreadOnly && n.Read {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", n.ID, n.Subject, n.Read, n.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only show unread notifications")
}
