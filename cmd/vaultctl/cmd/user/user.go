package user

import (
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

// UserCmd is the parent command for user administration.
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage vault users",
}

var (
	listRequirement = sdk.AccessRequirement{
		RequiresAuth: true,
		AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin, sdk.RoleFamilyAdmin},
	}
	reassignRequirement = sdk.AccessRequirement{
		RequiresAuth: true,
		AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin},
	}
)

func init() {
	UserCmd.AddCommand(listCmd)
	UserCmd.AddCommand(reassignCmd)
}
