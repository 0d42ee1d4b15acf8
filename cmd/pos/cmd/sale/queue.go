// cmd/pos/cmd/sale/queue.go
package sale

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
)

var QueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show sales waiting for sync",
	Long: `Lists the sales queued on this terminal that have not yet been
accepted by the central ledger, in the order they will be replayed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		queue := app.Store().UnsyncedSales(cmd.Context())
		if len(queue) == 0 {
			color.Green("Sync queue is empty.")
			return nil
		}

		fmt.Printf("Pending sales: %d\n\n", len(queue))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BILL\tINVOICE\tTIME\tTOTAL\tMODE\tATTEMPTS")

		for _, sl := range queue {
			attempts := fmt.Sprintf("%d", sl.SyncAttempts)
			if sl.SyncAttempts > 0 {
				attempts = color.YellowString("%d (rejected)", sl.SyncAttempts)
			}

			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n",
				sl.BillNo,
				sl.InvoiceID,
				sl.Timestamp.Format("2006-01-02 15:04:05"),
				sl.Total,
				sl.PaymentMode,
				attempts,
			)
		}

		return w.Flush()
	},
}
