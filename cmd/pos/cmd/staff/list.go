// cmd/pos/cmd/staff/list.go
package staff

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff accounts",
	Long: `Lists staff accounts, refreshing from the server when reachable and
serving the local cache otherwise. Password hashes are never shown.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		workers := app.Workers().Load(cmd.Context())
		if len(workers) == 0 {
			fmt.Println("Staff directory is empty. Connect to the server at least once.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tNAME\tROLE\tPHONE\tSTATUS")

		for _, wk := range workers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				wk.Username, wk.Fullname, wk.Role, wk.Phone, wk.Status)
		}

		return w.Flush()
	},
}
