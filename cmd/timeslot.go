package cmd

import (
	"fmt"
	"strconv"

	"github.com/chrisdamba/foodreview/internal/review"
	"github.com/spf13/cobra"
)

var timeslotCmd = &cobra.Command{
	Use:   "timeslot <hour>",
	Short: "Print the one-hour slot label for an hour of the day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hour, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("hour must be a number: %w", err)
		}
		label, err := review.FormatTimeSlot(hour)
		fmt.Fprintln(cmd.OutOrStdout(), label)
		return err
	},
}

func init() {
	rootCmd.AddCommand(timeslotCmd)
}
