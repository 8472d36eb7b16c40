package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and place orders",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		orders, err := clientApp.Orders.List(cobraCmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("no orders")
			return nil
		}
		for _, order := range orders {
			fmt.Printf("#%-4d %-10s total=%8s placed=%s\n",
				order.ID, order.Status, order.Total.StringFixed(2),
				order.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid order ID: %s", args[0])
		}

		order, err := clientApp.Orders.Get(cobraCmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("order #%d (%s)\n", order.ID, order.Status)
		for _, item := range order.Items {
			fmt.Printf("  %-36s %3d x %8s\n", item.Name, item.Quantity, item.Price.StringFixed(2))
		}
		fmt.Printf("total: %s\n", order.Total.StringFixed(2))
		return nil
	},
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place an order from the current cart",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		order, err := clientApp.Orders.Place(cobraCmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("order #%d placed, total %s\n", order.ID, order.Total.StringFixed(2))

		// The server emptied the cart; bring the mirror up to date.
		if err := clientApp.Cart.Refresh(cobraCmd.Context()); err != nil {
			clientApp.Log.Warnf("Cart refresh after order placement failed: %v", err)
		}
		return nil
	},
}

func init() {
	ordersCmd.AddCommand(ordersShowCmd, ordersPlaceCmd)
	rootCmd.AddCommand(ordersCmd)
}
