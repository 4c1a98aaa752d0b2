package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/chrisdamba/foodreview/internal/output"
	"github.com/chrisdamba/foodreview/internal/review"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Build the yearly review for a provider's orders",
	Long: `review fetches the provider's orders, groups them by year and publishes the review of
the chosen year (the latest by default, or every year with --all-years) to the configured
output: console, json, csv, parquet, kafka or postgres.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		orders, ok, err := fetchOrders(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No orders found for %s\n", cfg.Provider)
			return nil
		}

		analyzer := &review.Analyzer{Logger: &log.Logger}
		var results []*models.AnalyticsResult
		var skipped int
		if cfg.AllYears {
			results, skipped, err = analyzer.AnalyzeAll(ctx, orders)
			if err != nil {
				return err
			}
		} else {
			year, bucket, found := review.GroupByYear(orders).Select(cfg.Year)
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s orders found for %s\n", yearLabel(cfg.Year), cfg.Provider)
				return nil
			}
			var result *models.AnalyticsResult
			result, skipped = analyzer.Analyze(bucket)
			if result != nil {
				result.Year = year
				results = append(results, result)
				skipped = 0
			}
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No valid orders found for %s%s\n", cfg.Provider, skippedNote(skipped))
			return nil
		}
		if skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d malformed orders belong to no reviewed year\n", skipped)
		}

		dest, err := output.NewDestination(ctx, cfg)
		if err != nil {
			return err
		}
		publisher := output.NewPublisher(dest, cfg.Provider)
		if err := publisher.Publish(results...); err != nil {
			_ = publisher.Close()
			return err
		}
		if err := publisher.Close(); err != nil {
			return fmt.Errorf("failed to close %s output: %w", cfg.OutputFormat, err)
		}

		log.Info().
			Str("provider", cfg.Provider).
			Int("years", len(results)).
			Str("format", cfg.OutputFormat).
			Msg("review published")
		return nil
	},
}

func yearLabel(year int) string {
	if year == 0 {
		return "dated"
	}
	return review.YearKey(year)
}

func skippedNote(skipped int) string {
	if skipped == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d malformed orders skipped)", skipped)
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().Int("year", 0, "Year to review (default is the most recent)")
	reviewCmd.Flags().Bool("all-years", false, "Review every year")
	reviewCmd.Flags().String("format", "console", "Output format: console, json, csv, parquet, kafka or postgres")
	reviewCmd.Flags().String("output-path", ".", "Base path for file outputs")
	reviewCmd.Flags().String("output-folder", "reviews", "Folder under the output path")
	reviewCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	reviewCmd.Flags().String("kafka-topic-prefix", "", "Prefix for Kafka topic names")
}
