package notify

import (
	"github.com/pytact/docvault/pkg/sdk"
	"github.com/spf13/cobra"
)

// NotifyCmd is the parent command for the caller's notifications.
var NotifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Read your notifications",
}

var requirement = sdk.AccessRequirement{RequiresAuth: true}

func init() {
	NotifyCmd.AddCommand(listCmd)
	NotifyCmd.AddCommand(readCmd)
}
