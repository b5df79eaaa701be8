package docs

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List document categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), readRequirement, "docs categories"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		categories, err := api.ListCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPARENT")
		for _, c := range categories {
			parent := c.ParentID
			if parent == "" {
				parent = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, parent)
		}
		return w.Flush()
	},
}
