package staff

import (
	"github.com/spf13/cobra"
)

// StaffCmd is the parent command for the cached staff directory.
var StaffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Staff directory",
	Long:  `Inspect and refresh the staff directory cached on this terminal.`,
}
