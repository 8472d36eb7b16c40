// Package cmd provides the CLI commands for the storefront client.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront_client/internal/app"
)

// clientApp is built once per invocation, lazily, so commands that fail on
// argument parsing never touch the network or local storage.
var clientApp *app.App

// suppressLogoutNotice is set by the explicit logout command so the
// session-teardown notice only appears for forced (401) logouts.
var suppressLogoutNotice bool

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Terminal client for the storefront API",
	Long: `storefront is a terminal client for the storefront REST API:
browse products, manage the cart, place orders and maintain a local
wishlist.

Configuration comes from environment variables (or a .env file):
  STOREFRONT_API_URL    API base URL (default http://localhost:8090/api/v1)
  STOREFRONT_STATE_DIR  local state directory (default ~/.storefront)
  LOG_LEVEL             logrus level (default info)

Run 'storefront login' first; the session token is persisted locally and
attached to every request until logout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cobraCmd *cobra.Command, args []string) error {
		a, err := app.New()
		if err != nil {
			return err
		}
		clientApp = a

		// Surface session teardown triggered by the 401 policy.
		a.Session.OnLogout(func() {
			if !suppressLogoutNotice {
				fmt.Fprintln(os.Stderr, "session expired, please log in again")
			}
		})
		return nil
	},
}

// Execute runs the root command with the given base context.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
