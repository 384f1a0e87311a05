// Package export writes the working set as a spreadsheet-friendly CSV file.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/erauner12/catalogview/internal/catalog"
)

const (
	// BOM is the UTF-8 byte order mark spreadsheets use to detect encoding
	BOM = "\ufeff"

	// ContentType is served with CSV downloads
	ContentType = "text/csv; charset=utf-8"

	// DefaultDescription replaces an empty description
	DefaultDescription = "No description"

	// DefaultCategory replaces a missing category name
	DefaultCategory = "N/A"
)

// ErrEmptyExport is returned when there is nothing to export
var ErrEmptyExport = errors.New("no products to export")

// Header is the fixed first row.
var Header = []string{"ID", "Title", "Price", "Category", "Description"}

// Options controls the output encoding.
type Options struct {
	BOM bool
}

var textEscaper = strings.NewReplacer(`"`, `""`, "\r\n", " ", "\n", " ", "\r", " ")

// quote always wraps text fields, even ones that need no quoting.
// encoding/csv only quotes on demand and keeps embedded newlines.
func quote(s string) string {
	return `"` + textEscaper.Replace(s) + `"`
}

// Row formats one product as a CSV line without the trailing newline.
func Row(p catalog.Product) string {
	description := p.Description
	if description == "" {
		description = DefaultDescription
	}
	category := p.CategoryName()
	if category == "" {
		category = DefaultCategory
	}
	return strings.Join([]string{
		strconv.Itoa(p.ID),
		quote(p.Title),
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		quote(category),
		quote(description),
	}, ",")
}

// WriteCSV writes the header and one row per product, in order. It returns the
// number of product rows written. An empty slice writes nothing.
func WriteCSV(w io.Writer, products []catalog.Product, opts Options) (int, error) {
	if len(products) == 0 {
		return 0, ErrEmptyExport
	}

	bw := bufio.NewWriter(w)
	if opts.BOM {
		bw.WriteString(BOM)
	}
	bw.WriteString(strings.Join(Header, ","))
	bw.WriteByte('\n')
	for i := range products {
		bw.WriteString(Row(products[i]))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(products), nil
}

// FileName returns products_<unix-ms>.csv for t.
func FileName(t time.Time) string {
	return "products_" + strconv.FormatInt(t.UnixMilli(), 10) + ".csv"
}
