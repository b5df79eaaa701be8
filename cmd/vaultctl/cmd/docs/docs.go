package docs

import (
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

// DocsCmd is the parent command for vault documents.
var DocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage vault documents",
}

var (
	readRequirement = sdk.AccessRequirement{RequiresAuth: true}
	// Any member may upload into their own family; deleting is an admin action.
	uploadRequirement = sdk.AccessRequirement{RequiresAuth: true}
	deleteRequirement = sdk.AccessRequirement{
		RequiresAuth: true,
		AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin, sdk.RoleFamilyAdmin},
	}
)

func init() {
	DocsCmd.AddCommand(listCmd)
	DocsCmd.AddCommand(categoriesCmd)
	DocsCmd.AddCommand(uploadCmd)
	DocsCmd.AddCommand(deleteCmd)
}
