// Package cli implements bakeryctl, an operator tool for inspecting the menu
// and the pickup calendar without running the HTTP service.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"bakery-preorder/config"
	"bakery-preorder/order-svc/internal/domain"

	"github.com/spf13/cobra"
)

type RootOptions struct {
	Format string // "text" | "json"
	Now    string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bakeryctl",
		Short:         "Inspect the bakery menu and pickup calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "current time as RFC3339 (default: now in BAKERY_TIMEZONE)")

	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewPickupDatesCommand(opts))
	cmd.AddCommand(NewSlotsCommand(opts))
	cmd.AddCommand(NewDeadlineCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) now() (time.Time, error) {
	if o.Now == "" {
		return time.Now().In(config.Location()), nil
	}
	t, err := time.Parse(time.RFC3339, o.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", o.Now, err)
	}
	return t, nil
}

func parseMode(value string) (domain.FulfillmentMode, error) {
	mode := domain.FulfillmentMode(value)
	if !mode.Valid() {
		return "", fmt.Errorf("invalid mode %q: must be %s or %s", value, domain.InStock, domain.MadeToOrder)
	}
	return mode, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
