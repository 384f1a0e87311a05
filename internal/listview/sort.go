package listview

import (
	"cmp"
	"slices"

	"github.com/erauner12/catalogview/internal/catalog"
	"golang.org/x/text/cases"
)

// Column identifies a sortable column. The zero value means "no sort".
type Column string

const (
	ColumnNone  Column = ""
	ColumnTitle Column = "title"
	ColumnPrice Column = "price"
)

// ParseColumn maps a column name to a Column. Unknown names report false.
func ParseColumn(s string) (Column, bool) {
	switch Column(s) {
	case ColumnTitle:
		return ColumnTitle, true
	case ColumnPrice:
		return ColumnPrice, true
	default:
		return ColumnNone, false
	}
}

// Direction is the sort order of the active column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc" or "desc"; anything else is ascending.
func ParseDirection(s string) Direction {
	if Direction(s) == Descending {
		return Descending
	}
	return Ascending
}

// SortSpec is the active sort column and direction.
type SortSpec struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// Active reports whether a column is selected.
func (s SortSpec) Active() bool {
	return s.Column != ColumnNone
}

// Toggle applies a header click: the same column flips direction, any other
// column becomes active in ascending order. Unknown columns leave s unchanged.
func (s SortSpec) Toggle(c Column) SortSpec {
	if _, ok := ParseColumn(string(c)); !ok {
		return s
	}
	if s.Column == c {
		if s.Direction == Ascending {
			return SortSpec{Column: c, Direction: Descending}
		}
		return SortSpec{Column: c, Direction: Ascending}
	}
	return SortSpec{Column: c, Direction: Ascending}
}

// Sort returns a stably sorted copy of products. Equal keys keep their input
// order in both directions. An inactive or unknown column returns a plain copy.
func Sort(products []catalog.Product, spec SortSpec) []catalog.Product {
	switch spec.Column {
	case ColumnTitle:
		caser := cases.Fold()
		return sortByKey(products, spec.Direction, func(p catalog.Product) string { return caser.String(p.Title) })
	case ColumnPrice:
		return sortByKey(products, spec.Direction, func(p catalog.Product) float64 { return p.Price })
	default:
		return slices.Clone(products)
	}
}

// keyed pairs a product with its precomputed sort key.
type keyed[K cmp.Ordered] struct {
	key     K
	product catalog.Product
}

// sortByKey computes each key once, then sorts stably on the keys.
func sortByKey[K cmp.Ordered](products []catalog.Product, dir Direction, key func(catalog.Product) K) []catalog.Product {
	pairs := make([]keyed[K], len(products))
	for i, p := range products {
		pairs[i] = keyed[K]{key: key(p), product: p}
	}

	compare := func(a, b keyed[K]) int { return cmp.Compare(a.key, b.key) }
	if dir == Descending {
		compare = func(a, b keyed[K]) int { return cmp.Compare(b.key, a.key) }
	}
	slices.SortStableFunc(pairs, compare)

	out := make([]catalog.Product, len(pairs))
	for i := range pairs {
		out[i] = pairs[i].product
	}
	return out
}
