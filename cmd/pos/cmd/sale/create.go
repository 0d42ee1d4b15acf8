// cmd/pos/cmd/sale/create.go
package sale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
	"grampos/internal/domain/catalog"
	"grampos/internal/domain/sale"
)

var (
	items       []string
	paymentMode string
	discountPct float64
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Finalize a sale",
	Long: `Finalize the cart into an immutable sale record.

Each --item takes product-id:qty, resolved against the local catalog
mirror. The sale is committed to the terminal store first and queued for
the central ledger; it succeeds whether or not the server is reachable.`,
	Example: `  pos sale create --item 3:2 --item 7:1 --mode upi --discount 10`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if len(items) == 0 {
			return fmt.Errorf("at least one --item product-id:qty is required")
		}

		mode, err := parseMode(paymentMode)
		if err != nil {
			return err
		}

		products := app.Catalog().Load(cmd.Context())
		if len(products) == 0 {
			return fmt.Errorf("product catalog is empty, run 'pos catalog refresh' while online")
		}

		lines, err := buildLines(items, products)
		if err != nil {
			return err
		}

		disc := sale.Discount{
			Enabled: discountPct > 0,
			Percent: discountPct,
		}

		sl, err := app.Recorder().FinalizeSale(cmd.Context(), lines, mode, disc)
		if err != nil {
			return fmt.Errorf("failed to finalize sale: %w", err)
		}

		printBill(sl)

		if !app.IsOnline(cmd.Context()) {
			color.Yellow("Offline: sale queued on this terminal, it will sync automatically.")
		}

		return nil
	},
}

func parseMode(s string) (sale.PaymentMode, error) {
	switch strings.ToLower(s) {
	case "", "cash":
		return sale.PaymentCash, nil
	case "upi":
		return sale.PaymentUPI, nil
	default:
		return "", fmt.Errorf("unsupported payment mode: %s (use cash or upi)", s)
	}
}

func buildLines(specs []string, products []catalog.Product) ([]sale.Line, error) {
	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]sale.Line, 0, len(specs))
	for _, spec := range specs {
		idPart, qtyPart, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --item %q, expected product-id:qty", spec)
		}

		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id in --item %q", spec)
		}

		qty, err := strconv.Atoi(qtyPart)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in --item %q", spec)
		}

		p, found := byID[id]
		if !found {
			return nil, fmt.Errorf("product %d not found in catalog", id)
		}
		if p.Status == catalog.StatusDeleted {
			return nil, fmt.Errorf("product %q is no longer sold", p.Name)
		}

		lines = append(lines, sale.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       qty,
		})
	}

	return lines, nil
}

func printBill(sl *sale.Sale) {
	color.Green("Bill #%d  (%s)", sl.BillNo, sl.InvoiceID)
	fmt.Println()

	for _, line := range sl.Items {
		fmt.Printf("  %-24s %3d x %8.2f = %10.2f\n", line.Name, line.Qty, line.Price, line.LineTotal)
	}

	fmt.Println(strings.Repeat("-", 52))
	fmt.Printf("  %-40s %10.2f\n", "Subtotal", sl.Subtotal)
	if sl.Discount > 0 {
		fmt.Printf("  %-40s %10.2f\n", fmt.Sprintf("Discount (%.0f%%)", sl.DiscountPercent), -sl.Discount)
	}
	fmt.Printf("  %-40s %10.2f\n", "GST", sl.GST)
	fmt.Printf("  %-40s %10.2f\n", "Total", sl.Total)
	fmt.Printf("  Payment: %s\n", sl.PaymentMode)
}

func init() {
	CreateCmd.Flags().StringArrayVarP(&items, "item", "i", nil, "cart line as product-id:qty, repeatable")
	CreateCmd.Flags().StringVarP(&paymentMode, "mode", "m", "cash", "payment mode: cash or upi")
	CreateCmd.Flags().Float64VarP(&discountPct, "discount", "d", 0, "discount percent, clamped to [0,100]")
}
