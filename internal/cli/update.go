package cli

import (
	"fmt"
	"strconv"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var (
		title       string
		price       float64
		description string
	)

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update a product's title, price or description",
		Example: `  catalogview update 5 --price 99`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			in := updateInputFromFlags(cmd, title, price, description)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Update(ctx, id, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %d\n", id)
			if res.Patch.Title != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  title: %s\n", *res.Patch.Title)
			}
			if res.Patch.Price != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  price: %s\n", formatPrice(*res.Patch.Price))
			}
			if res.Patch.Description != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  description: %s\n", *res.Patch.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().Float64Var(&price, "price", 0, "New price, greater than zero")
	cmd.Flags().StringVar(&description, "description", "", "New description")

	return cmd
}

// updateInputFromFlags sends only the flags given on the command line.
func updateInputFromFlags(cmd *cobra.Command, title string, price float64, description string) catalog.UpdateInput {
	var in catalog.UpdateInput
	if cmd.Flags().Changed("title") {
		in.Title = &title
	}
	if cmd.Flags().Changed("price") {
		in.Price = &price
	}
	if cmd.Flags().Changed("description") {
		in.Description = &description
	}
	return in
}
