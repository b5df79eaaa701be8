package family

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List families",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), readRequirement, "family list"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		families, err := api.ListFamilies(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list families: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tUPDATED")
		for _, family := range families {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", family.ID, family.Name, family.MemberCount, family.UpdatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}
