package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/chrisdamba/foodreview/internal/review"
	"github.com/spf13/cobra"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Show orders and spend per month of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		orders, ok, err := fetchOrders(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No orders found for %s\n", cfg.Provider)
			return nil
		}

		year, bucket, found := review.GroupByYear(orders).Select(cfg.Year)
		if !found {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s orders found for %s\n", yearLabel(cfg.Year), cfg.Provider)
			return nil
		}

		valid, _ := review.Sanitize(bucket)
		months, err := review.GroupByMonth(valid)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tORDERS\tSPENT\n", review.YearKey(year))
		for _, total := range months.Totals() {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", total.Month, total.Orders, total.Spent)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(monthsCmd)

	monthsCmd.Flags().Int("year", 0, "Year to break down (default is the most recent)")
}
