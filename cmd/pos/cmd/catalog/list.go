// cmd/pos/cmd/catalog/list.go
package catalog

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
	"grampos/internal/domain/catalog"
)

var showDeleted bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `Lists the catalog, fetching a fresh copy from the server when it is
reachable and falling back to the local mirror when it is not.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		products := app.Catalog().Load(cmd.Context())
		if len(products) == 0 {
			fmt.Println("Catalog is empty. Run 'pos catalog refresh' while online.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tUNIT\tCATEGORY")

		shown := 0
		for _, p := range products {
			if p.Status == catalog.StatusDeleted && !showDeleted {
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\t%s\n",
				p.ID, p.Name, p.Price, p.Stock, p.Unit, p.Category)
			shown++
		}

		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d products\n", shown)
		return nil
	},
}

func init() {
	ListCmd.Flags().BoolVar(&showDeleted, "deleted", false, "include delisted products")
}
