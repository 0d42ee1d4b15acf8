// cmd/pos/cmd/catalog/refresh.go
package catalog

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
)

var RefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the local catalog mirror",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if !app.IsOnline(cmd.Context()) {
			color.Yellow("Server unreachable, keeping the current mirror.")
			return nil
		}

		products := app.Catalog().Load(cmd.Context())
		color.Green("Catalog refreshed: %d products", len(products))
		return nil
	},
}
