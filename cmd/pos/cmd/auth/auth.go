package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd is the parent command for staff authentication.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Staff authentication",
	Long:  `Verify a cashier against the locally cached staff directory.`,
}
