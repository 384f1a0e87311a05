package cli

import (
	"fmt"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var in catalog.CreateInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product through the product API",
		Example: `  catalogview create --title "Red Shirt" --price 30 --category-id 1 \
    --image https://example.com/a.png --image https://example.com/b.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Create(ctx, in)
			if err != nil {
				return err
			}

			p := res.Product
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %d: %s (%s)\n", p.ID, p.Title, formatPrice(p.Price))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Product title (required)")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "Price, greater than zero (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "Product description")
	cmd.Flags().IntVar(&in.CategoryID, "category-id", 0, "Category id (required)")
	cmd.Flags().StringArrayVar(&in.Images, "image", nil, "Image URL; repeat for more, the first is required")

	return cmd
}
