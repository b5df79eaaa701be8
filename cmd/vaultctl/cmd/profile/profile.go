package profile

import (
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

// ProfileCmd is the parent command for the caller's own account
var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your own account",
}

var requirement = sdk.AccessRequirement{RequiresAuth: true}

func init() {
	ProfileCmd.AddCommand(showCmd)
	ProfileCmd.AddCommand(updateCmd)
}
