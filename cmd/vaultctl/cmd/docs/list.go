package docs

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var listFamilyID string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), readRequirement, "docs list"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		documents, err := api.ListDocuments(cmd.Context(), listFamilyID)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tFILE\tSIZE\tUPDATED")
		for _, d := range documents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Title, d.FileName, d.SizeBytes, d.UpdatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVar(&listFamilyID, "family", "", "Limit to one family")
}
