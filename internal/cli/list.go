package cli

import (
	"encoding/json"
	"fmt"

	"github.com/erauner12/catalogview/internal/listview"
	"github.com/spf13/cobra"
)

// viewFlags are the search, sort and page flags shared by list and export.
type viewFlags struct {
	search string
	sort   string
	desc   bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Case-insensitive title search")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort column: title or price")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending (requires --sort)")
}

// sortSpec converts the flags into a sort spec. An empty --sort keeps the
// dataset order.
func (f *viewFlags) sortSpec() (listview.SortSpec, error) {
	if f.sort == "" {
		if f.desc {
			return listview.SortSpec{}, fmt.Errorf("--desc requires --sort")
		}
		return listview.SortSpec{}, nil
	}
	column, ok := listview.ParseColumn(f.sort)
	if !ok {
		return listview.SortSpec{}, fmt.Errorf("unknown sort column %q (want title or price)", f.sort)
	}
	spec := listview.SortSpec{Column: column, Direction: listview.Ascending}
	if f.desc {
		spec.Direction = listview.Descending
	}
	return spec, nil
}

func newListCmd() *cobra.Command {
	var (
		flags        viewFlags
		page         int
		pageSize     int
		fromSnapshot bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the catalog",
		Example: `  catalogview list --search shirt --sort price --desc
  catalogview list --page 2 --page-size 20 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			spec, err := flags.sortSpec()
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = cfg.PageSize
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.load(ctx, fromSnapshot); err != nil {
				return err
			}

			view, err := a.svc.Query(listview.Query{
				Search: flags.search,
				Sort:   spec,
				Page:   listview.PageSpec{PageSize: pageSize, CurrentPage: page},
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			renderView(cmd.OutOrStdout(), view)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (clamped to the last page)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Products per page (default from config)")
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "Read the stored snapshot instead of the product API")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")

	return cmd
}
