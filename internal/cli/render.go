package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/erauner12/catalogview/internal/export"
	"github.com/erauner12/catalogview/internal/listview"
)

var (
	accent = lipgloss.Color("#7D56F4")
	subtle = lipgloss.Color("#888888")

	headerStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	priceStyle  = cellStyle.Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Foreground(subtle)
	activeStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

// maxTitleWidth truncates long titles in the table
const maxTitleWidth = 40

// renderView writes the page table followed by the status lines.
func renderView(w io.Writer, v listview.View) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No products to display"))
	} else {
		fmt.Fprintln(w, productTable(v).String())
	}

	fmt.Fprintln(w, v.Page.Summary())
	if msg := v.Filter.Message(); msg != "" {
		fmt.Fprintln(w, msg)
	}
	if v.Page.ShowControls {
		fmt.Fprintln(w, pageControls(v.Page))
	}
}

func productTable(v listview.View) *table.Table {
	rows := make([][]string, 0, len(v.Items))
	for _, p := range v.Items {
		category := p.CategoryName()
		if category == "" {
			category = export.DefaultCategory
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			truncate(p.Title, maxTitleWidth),
			formatPrice(p.Price),
			category,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("ID", sortHeader("Title", listview.ColumnTitle, v.Sort), sortHeader("Price", listview.ColumnPrice, v.Sort), "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return priceStyle
			default:
				return cellStyle
			}
		})
}

// sortHeader marks the active sort column with its direction.
func sortHeader(label string, c listview.Column, spec listview.SortSpec) string {
	if spec.Column != c {
		return label
	}
	if spec.Direction == listview.Descending {
		return label + " ▼"
	}
	return label + " ▲"
}

// pageControls renders "« Prev  1 [2] 3  Next »" with disabled ends dimmed.
func pageControls(m listview.PageMeta) string {
	parts := make([]string, 0, len(m.Window)+2)

	prev := "« Prev"
	if m.HasPrevious {
		parts = append(parts, prev)
	} else {
		parts = append(parts, dimStyle.Render(prev))
	}

	for _, link := range m.Window {
		n := strconv.Itoa(link.Number)
		if link.Active {
			parts = append(parts, activeStyle.Render("["+n+"]"))
		} else {
			parts = append(parts, n)
		}
	}

	next := "Next »"
	if m.HasNext {
		parts = append(parts, next)
	} else {
		parts = append(parts, dimStyle.Render(next))
	}

	return strings.Join(parts, " ")
}

func formatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', 2, 64)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
