package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
)

var (
	syncStatus  bool
	syncTimeout time.Duration
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued sales to the server",
	Long: `Runs one drain cycle against the central ledger: queued sales are
replayed one at a time, oldest bill first. A network failure stops the
cycle with everything unsent left queued; a sale the server refuses is
skipped so it cannot block the rest of the queue.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if syncStatus {
			return showStatus(cmd.Context(), app)
		}

		return runDrain(cmd.Context(), app)
	},
}

func runDrain(ctx context.Context, app *client.App) error {
	pending := len(app.Store().UnsyncedSales(ctx))
	if pending == 0 {
		color.Green("Nothing to sync.")
		return nil
	}

	fmt.Printf("Syncing %d pending sales...\n", pending)

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	result, err := app.Syncer().DrainNow(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Println()
	fmt.Printf("Submitted: %d\n", result.Submitted)
	if result.Rejected > 0 {
		color.Yellow("Rejected by server: %d (left queued, see 'pos sale queue')", result.Rejected)
	}
	fmt.Printf("Duration: %v\n", result.Duration.Round(time.Millisecond))

	if result.Halted {
		color.Red("Network failure: %d sales still queued, will retry on reconnect.", result.Remaining)
		return nil
	}

	color.Green("Sync complete.")
	return nil
}

func showStatus(ctx context.Context, app *client.App) error {
	pending := len(app.Store().UnsyncedSales(ctx))
	fmt.Printf("Pending sales: %d\n", pending)

	if app.Syncer().IsDraining() {
		fmt.Println("Drain cycle: running")
	} else {
		fmt.Println("Drain cycle: idle")
	}

	if last := app.Syncer().LastRun(); !last.IsZero() {
		fmt.Printf("Last cycle started: %s\n", last.Format("2006-01-02 15:04:05"))
	}

	fmt.Print("Server: ")
	if app.IsOnline(ctx) {
		color.Green("reachable")
	} else {
		color.Red("unreachable")
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "show queue and connectivity status")
	SyncCmd.Flags().DurationVar(&syncTimeout, "timeout", 2*time.Minute, "overall drain deadline")
}
