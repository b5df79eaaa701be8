package docs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/pytact/docvault/cmd/vaultctl/internal/config"
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	uploadFamilyID   string
	uploadCategoryID string
	uploadTitle      string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Register a document in the vault",
	Long: `Registers the file's metadata with the vault. Creation carries no
version token; the document's first token comes from its first read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.ClientProvider.Guard(cmd.Context(), uploadRequirement, "docs upload"); err != nil {
			return err
		}
		if uploadFamilyID == "" {
			return fmt.Errorf("--family is required")
		}

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", args[0], err)
		}
		title := uploadTitle
		if title == "" {
			title = info.Name()
		}

		api, err := cfg.ClientProvider.API(cmd.Context())
		if err != nil {
			return err
		}

		document, err := api.UploadDocument(cmd.Context(), sdk.UploadDocumentInput{
			FamilyID:   uploadFamilyID,
			CategoryID: uploadCategoryID,
			Title:      title,
			FileName:   filepath.Base(args[0]),
			SizeBytes:  info.Size(),
		})
		if err != nil {
			return fmt.Errorf("failed to upload document: %w", err)
		}

		pterm.Success.Printf("Registered document %s (%s)\n", document.ID, document.Title)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFamilyID, "family", "", "Family the document belongs to")
	uploadCmd.Flags().StringVar(&uploadCategoryID, "category", "", "Category ID")
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "Document title (defaults to file name)")
}
