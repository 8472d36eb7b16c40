package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage the local wishlist",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		ids := clientApp.Wishlist.IDs()
		if len(ids) == 0 {
			fmt.Println("wishlist is empty")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		clientApp.Wishlist.Add(args[0])
		fmt.Printf("added %s\n", args[0])
		return nil
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		clientApp.Wishlist.Remove(args[0])
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistRemoveCmd)
	rootCmd.AddCommand(wishlistCmd)
}
