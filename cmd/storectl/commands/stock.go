package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var restockCmd = &cobra.Command{
	Use:   "restock PRODUCT_ID QUANTITY",
	Short: "Add received units to a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil || quantity <= 0 {
			return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
		}

		ctx := cmd.Context()
		st, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		stock, err := st.Restock(ctx, productID, quantity)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "product %d: %d on hand\n", productID, stock)
		return nil
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust-stock PRODUCT_ID DELTA",
	Short: "Apply a signed stock correction",
	Long: `Apply a signed correction to a product's on-hand quantity, for example
after a stock count. The change is refused if it would leave the quantity
below zero.

Examples:
  storectl adjust-stock 12 -- -2    # two units written off
  storectl adjust-stock 12 3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("delta must be an integer, got %q", args[1])
		}

		ctx := cmd.Context()
		st, db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		stock, err := st.AdjustStock(ctx, productID, delta)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "product %d: %d on hand\n", productID, stock)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restockCmd, adjustCmd)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("product id must be a positive integer, got %q", raw)
	}
	return id, nil
}
