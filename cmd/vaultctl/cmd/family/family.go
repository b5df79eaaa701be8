package family

import (
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

// FamilyCmd is the parent command for family operations
var FamilyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage families",
	Long:  `Commands for listing, inspecting and updating families.`,
}

// Family listing and inspection admit any authenticated role; the server
// scopes the result to the caller's own family where appropriate.
var readRequirement = sdk.AccessRequirement{RequiresAuth: true}

// Renames require an admin tier; deletion is reserved for super admins.
var (
	updateRequirement = sdk.AccessRequirement{
		RequiresAuth: true,
		AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin, sdk.RoleFamilyAdmin},
	}
	deleteRequirement = sdk.AccessRequirement{
		RequiresAuth: true,
		AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin},
	}
)

func init() {
	FamilyCmd.AddCommand(listCmd)
	FamilyCmd.AddCommand(getCmd)
	FamilyCmd.AddCommand(updateCmd)
	FamilyCmd.AddCommand(deleteCmd)
}
