package catalog

import (
	"github.com/spf13/cobra"
)

// CatalogCmd is the parent command for the product catalog mirror.
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the product catalog",
	Long:  `Browse and refresh the product catalog mirrored on this terminal.`,
}
