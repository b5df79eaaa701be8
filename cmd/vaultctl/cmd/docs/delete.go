package docs

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), deleteRequirement, "docs delete"); err != nil {
			return err
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		document, token, err := api.GetDocument(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		if !cfg.NonInteractive {
			confirmed, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete %q?", document.Title))
			if err != nil {
				return err
			}
			if !confirmed {
				pterm.Info.Println("Aborted.")
				return nil
			}
		}

		err = cfg.ClientProvider.Mutate(cmd.Context(), sdk.MutationRequest{
			Ref:           sdk.ResourceRef{Kind: sdk.ResourceDocument, ID: document.ID},
			ExpectedToken: token,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Deleted document %s\n", document.ID)
		return nil
	},
}
