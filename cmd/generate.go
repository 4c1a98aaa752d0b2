package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodreview/internal/factories"
	"github.com/chrisdamba/foodreview/internal/repositories"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic order history",
	Long: `generate creates fake orders spread between start_date and end_date and appends them
under the provider key of the configured source (a JSON file by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if menuFile, _ := cmd.Flags().GetString("menu-file"); menuFile != "" {
			if err := cfg.LoadMenuDishData(menuFile); err != nil {
				return fmt.Errorf("failed to load menu dishes: %w", err)
			}
		}
		if cfg.OrderCount <= 0 {
			return fmt.Errorf("order count must be positive, got %d", cfg.OrderCount)
		}

		writer, closeFn, err := repositories.NewOrderWriter(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		bar := progressbar.NewOptions(cfg.OrderCount,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("generating orders"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		orders := factories.NewOrderFactory(cfg).CreateOrders(cfg.OrderCount, func() {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		if err := writer.BulkCreate(ctx, cfg.Provider, orders); err != nil {
			return fmt.Errorf("failed to store generated orders: %w", err)
		}

		log.Info().
			Int("orders", len(orders)).
			Str("provider", cfg.Provider).
			Str("source", cfg.Source).
			Msg("orders generated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("count", 500, "Number of orders to generate")
	generateCmd.Flags().String("out", "orders.json", "JSON file the file source writes to")
	generateCmd.Flags().Int64("seed", 42, "Random seed")
	generateCmd.Flags().String("start-date", "", "Earliest order time (RFC3339)")
	generateCmd.Flags().String("end-date", "", "Latest order time (RFC3339)")
	generateCmd.Flags().StringSlice("city-names", nil, "Cities to place restaurants in")
	generateCmd.Flags().String("menu-file", "", "CSV dish catalogue, name in the second column")
}
