package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/erauner12/catalogview/internal/export"
	"github.com/erauner12/catalogview/internal/listview"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		flags        viewFlags
		output       string
		noBOM        bool
		fromSnapshot bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted catalog as CSV",
		Long: `Writes every product in the current working set (all pages, after search
and sort) to a CSV file. The file starts with a UTF-8 byte order mark unless
--no-bom is given. Nothing is written when no product matches.`,
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

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.load(ctx, fromSnapshot); err != nil {
				return err
			}

			q := listview.Query{
				Search: flags.search,
				Sort:   spec,
				Page:   listview.PageSpec{PageSize: 1, CurrentPage: 1},
			}

			// An empty working set must not leave an empty file behind.
			matched, err := a.svc.Query(q)
			if err != nil {
				return err
			}
			if matched.Page.TotalItems == 0 {
				return export.ErrEmptyExport
			}

			if output == "" {
				output = export.FileName(time.Now())
			}
			n, err := writeExportFile(output, func(f *bufio.Writer) (int, error) {
				return a.svc.ExportQuery(f, q, export.Options{BOM: !noBOM})
			})
			if err != nil {
				return err
			}

			log.Info().Str("path", output).Int("records", n).Msg("export written")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", n, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default products_<unix-ms>.csv)")
	cmd.Flags().BoolVar(&noBOM, "no-bom", false, "Omit the UTF-8 byte order mark")
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "Read the stored snapshot instead of the product API")

	return cmd
}

// writeExportFile creates path and removes it again if writing fails.
func writeExportFile(path string, write func(*bufio.Writer) (int, error)) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	bw := bufio.NewWriter(f)
	n, err := write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write export file: %w", err)
	}
	return n, nil
}
