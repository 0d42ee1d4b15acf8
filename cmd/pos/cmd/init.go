// cmd/pos/cmd/init.go
package cmd

import (
	"grampos/cmd/pos/cmd/auth"
	"grampos/cmd/pos/cmd/catalog"
	"grampos/cmd/pos/cmd/sale"
	"grampos/cmd/pos/cmd/staff"
	"grampos/cmd/pos/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)

	rootCmd.AddCommand(sale.SaleCmd)
	sale.SaleCmd.AddCommand(sale.CreateCmd)
	sale.SaleCmd.AddCommand(sale.QueueCmd)

	rootCmd.AddCommand(catalog.CatalogCmd)
	catalog.CatalogCmd.AddCommand(catalog.ListCmd)
	catalog.CatalogCmd.AddCommand(catalog.RefreshCmd)

	rootCmd.AddCommand(staff.StaffCmd)
	staff.StaffCmd.AddCommand(staff.ListCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
