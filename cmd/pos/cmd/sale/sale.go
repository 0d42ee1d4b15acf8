package sale

import (
	"github.com/spf13/cobra"
)

// SaleCmd is the parent command for billing operations.
var SaleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Record and inspect sales",
	Long:  `Finalize sales at the counter and inspect the pending sync queue.`,
}
