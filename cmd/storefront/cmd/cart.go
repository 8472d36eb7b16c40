package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and modify the cart",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		if err := clientApp.Cart.Refresh(cobraCmd.Context()); err != nil {
			return err
		}
		printCart()
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> <quantity>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(2),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[1])
		}
		variant, _ := cobraCmd.Flags().GetString("variant")

		if err := clientApp.Cart.Add(cobraCmd.Context(), args[0], quantity, variant); err != nil {
			return err
		}
		printCart()
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Set the absolute quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid item ID: %s", args[0])
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[1])
		}

		if err := clientApp.Cart.UpdateQuantity(cobraCmd.Context(), itemID, quantity); err != nil {
			return err
		}
		printCart()
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid item ID: %s", args[0])
		}

		if err := clientApp.Cart.Remove(cobraCmd.Context(), itemID); err != nil {
			return err
		}
		printCart()
		return nil
	},
}

func printCart() {
	items := clientApp.Cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range items {
		variant := ""
		if item.Variant != "" {
			variant = " (" + item.Variant + ")"
		}
		fmt.Printf("#%-4d %-36s%s %3d x %8s = %8s\n",
			item.ID, item.Name, variant, item.Quantity,
			item.Price.StringFixed(2), item.Total.StringFixed(2))
	}
	fmt.Printf("%d items, subtotal %s\n", clientApp.Cart.ItemCount(), clientApp.Cart.Subtotal().StringFixed(2))
}

func init() {
	cartAddCmd.Flags().String("variant", "", "product variant ID")
	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd)
	rootCmd.AddCommand(cartCmd)
}
