package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products (paginated)",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		page, _ := cobraCmd.Flags().GetInt("page")
		perPage, _ := cobraCmd.Flags().GetInt("per-page")
		categoryID, _ := cobraCmd.Flags().GetInt("category")

		result, err := clientApp.Products.List(cobraCmd.Context(), page, perPage, categoryID)
		if err != nil {
			return err
		}

		for _, p := range result.Products {
			marker := " "
			if clientApp.Wishlist.Has(strconv.Itoa(p.ID)) {
				marker = "*"
			}
			fmt.Printf("%s #%-4d %-40s %8s  stock=%d\n", marker, p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
		}
		fmt.Printf("page %d/%d (%d products)\n", result.Meta.Page, result.Meta.TotalPages, result.Meta.TotalCount)
		return nil
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid product ID: %s", args[0])
		}

		p, err := clientApp.Products.Get(cobraCmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n", p.ID, p.Name)
		if p.Description != "" {
			fmt.Println(p.Description)
		}
		fmt.Printf("price: %s  stock: %d  category: %d\n", p.Price.StringFixed(2), p.Stock, p.CategoryID)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		categories, err := clientApp.Categories.List(cobraCmd.Context())
		if err != nil {
			return err
		}
		for _, cat := range categories {
			fmt.Printf("#%-4d %s\n", cat.ID, cat.Name)
		}
		return nil
	},
}

func init() {
	productsListCmd.Flags().Int("page", 1, "page number")
	productsListCmd.Flags().Int("per-page", 20, "products per page")
	productsListCmd.Flags().Int("category", 0, "filter by category ID")
	productsCmd.AddCommand(productsListCmd, productsShowCmd)
	rootCmd.AddCommand(productsCmd, categoriesCmd)
}
