package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront_client/internal/services"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Authenticate and persist the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		user, err := clientApp.Auth.Login(cobraCmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Email, user.Role)

		// Warm the cart mirror now that a session exists.
		if err := clientApp.Cart.Refresh(cobraCmd.Context()); err != nil {
			clientApp.Log.Warnf("Initial cart refresh failed: %v", err)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session token and clear local state",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		suppressLogoutNotice = true
		if err := clientApp.Auth.Logout(cobraCmd.Context()); err != nil {
			// Local session is cleared regardless; report but don't fail.
			fmt.Printf("server logout failed (%v), local session cleared\n", err)
			return nil
		}
		fmt.Println("logged out")
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <email> <password>",
	Short: "Register a new account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		orgID, _ := cobraCmd.Flags().GetInt("org")
		user, err := clientApp.Auth.Signup(cobraCmd.Context(), services.SignupRequest{
			Email:                args[0],
			Password:             args[1],
			PasswordConfirmation: args[1],
			OrgID:                orgID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("account created for %s\n", user.Email)
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the current user profile",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		user, err := clientApp.Auth.Me(cobraCmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s <%s> role=%s\n", user.ID, user.Name, user.Email, user.Role)
		return nil
	},
}

func init() {
	signupCmd.Flags().Int("org", 0, "organization ID")
	rootCmd.AddCommand(loginCmd, logoutCmd, signupCmd, meCmd)
}
