// cmd/pos/cmd/auth/login.go
package auth

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"grampos/cmd/pos/cmd/types"
	"grampos/internal/app/client"
)

var refreshFirst bool

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a cashier login",
	Long: `Checks a username and password against the staff directory cached on
this terminal. Verification works fully offline; only password hashes are
cached, never plain passwords.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if refreshFirst {
			workers := app.Workers().Load(cmd.Context())
			fmt.Printf("Staff directory refreshed: %d accounts\n", len(workers))
		}

		fmt.Print("Username: ")
		var username string
		_, _ = fmt.Scanln(&username)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		w, err := app.Workers().Authenticate(cmd.Context(), username, string(password))
		if err != nil {
			color.Red("Login failed: %v", err)
			return err
		}

		color.Green("Welcome, %s (%s)", w.Fullname, w.Role)
		return nil
	},
}

func init() {
	LoginCmd.Flags().BoolVarP(&refreshFirst, "refresh", "r", false, "refresh the staff directory before verifying")
}
