package cli

import (
	"fmt"

	"bakery-preorder/order-svc/internal/schedule"

	"github.com/spf13/cobra"
)

func NewPickupDatesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		mode string
		days int
	)

	cmd := &cobra.Command{
		Use:   "pickup-dates",
		Short: "List selectable pickup dates for a fulfillment mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			now, err := rootOpts.now()
			if err != nil {
				return err
			}

			available := schedule.AvailableDates(m, now, days)
			if rootOpts.Format == "json" {
				dates := make([]string, 0, len(available))
				for _, d := range available {
					dates = append(dates, d.Format(schedule.DateLayout))
				}
				return writeJSON(cmd.OutOrStdout(), dates)
			}
			for _, d := range available {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Format(schedule.DateLayout), d.Weekday())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "in_stock", "fulfillment mode (in_stock|made_to_order)")
	cmd.Flags().IntVar(&days, "days", schedule.DefaultHorizonDays, "days ahead to include")

	return cmd
}

func NewSlotsCommand(rootOpts *RootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List pickup time slots for a fulfillment mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			slots := schedule.Slots(m)
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), slots)
			}
			for _, s := range slots {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "in_stock", "fulfillment mode (in_stock|made_to_order)")

	return cmd
}

func NewDeadlineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deadline",
		Short: "Show the next weekly order deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := rootOpts.now()
			if err != nil {
				return err
			}
			deadline := schedule.NextOrderDeadline(now)
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), deadline)
			}
			fmt.Fprintln(cmd.OutOrStdout(), deadline.Text)
			return nil
		},
	}
}
