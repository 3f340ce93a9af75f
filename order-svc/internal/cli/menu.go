package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bakery-preorder/config"
	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/service"
	"bakery-preorder/order-svc/internal/storage"

	"github.com/spf13/cobra"
)

type menuOptions struct {
	catalog string
	file    string
	filter  service.CatalogFilter
}

func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &menuOptions{}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List menu items by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "static", "catalog source (static|yaml|postgres)")
	cmd.Flags().StringVar(&opts.file, "file", "menu.yaml", "menu file for the yaml catalog")
	cmd.Flags().StringVar(&opts.filter.Category, "category", "", "only items in this category")
	cmd.Flags().BoolVar(&opts.filter.Vegan, "vegan", false, "only vegan items")
	cmd.Flags().BoolVar(&opts.filter.GlutenFree, "gluten-free", false, "only gluten-free items")
	cmd.Flags().BoolVar(&opts.filter.DairyFree, "dairy-free", false, "only dairy-free items")
	cmd.Flags().BoolVar(&opts.filter.NutFree, "nut-free", false, "only nut-free items")
	cmd.Flags().BoolVar(&opts.filter.IncludeUnavailable, "all", false, "include unavailable items")

	return cmd
}

func loadCatalog(ctx context.Context, kind, file string) (*service.CatalogService, error) {
	switch kind {
	case "static", "":
		return service.NewCatalogService(ctx, storage.StaticCatalog{})
	case "yaml":
		return service.NewCatalogService(ctx, storage.NewYAMLCatalog(file))
	case "postgres":
		db := config.MustInitPostgres()
		defer db.Close()
		return service.NewCatalogService(ctx, storage.NewPostgresCatalog(db))
	default:
		return nil, fmt.Errorf("unknown catalog %q", kind)
	}
}

func runMenu(ctx context.Context, rootOpts *RootOptions, opts *menuOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := loadCatalog(ctx, opts.catalog, opts.file)
	if err != nil {
		return err
	}

	items := catalog.List(opts.filter)
	if rootOpts.Format == "json" {
		return writeJSON(out, items)
	}

	printed := 0
	for _, category := range catalog.Categories() {
		var lines []string
		for _, item := range items {
			if item.Category == category {
				lines = append(lines, formatItem(item))
			}
		}
		if len(lines) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, category)
		for _, line := range lines {
			fmt.Fprintln(out, "  "+line)
		}
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(out, "No items match.")
	}
	return nil
}

func formatItem(item domain.MenuItem) string {
	details := []string{availability(item)}
	d := item.DietaryInfo
	if d.Vegan {
		details = append(details, "vegan")
	}
	if d.GlutenFree {
		details = append(details, "gluten-free")
	}
	if d.DairyFree {
		details = append(details, "dairy-free")
	}
	if d.NutFree {
		details = append(details, "nut-free")
	}
	if !item.Available {
		details = append(details, "unavailable")
	}
	return fmt.Sprintf("%s [%s] $%s - %s", item.Name, item.ID, item.Price.StringFixed(2), strings.Join(details, ", "))
}

func availability(item domain.MenuItem) string {
	switch {
	case item.MadeToOrder:
		return "made to order"
	case item.Stock == 0:
		return "sold out"
	default:
		return fmt.Sprintf("in stock: %d", item.Stock)
	}
}
