// Package listview implements the catalog list engine: a dataset plus the
// search, sort and page state that derive what is displayed.
//
// The dataset is the single source of truth. The working set (filtered, then
// stably sorted) is rebuilt from it after every change, so creates and updates
// can never leave the visible list out of step with the dataset.
package listview

import (
	"slices"

	"github.com/erauner12/catalogview/internal/catalog"
)

// Engine holds the dataset and the active view state. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	dataset []catalog.Product
	working []catalog.Product
	query   string
	sort    SortSpec
	page    PageSpec
}

// NewEngine creates an empty engine. Page sizes below 1 fall back to
// DefaultPageSize.
func NewEngine(pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine{
		dataset: []catalog.Product{},
		working: []catalog.Product{},
		sort:    SortSpec{Column: ColumnNone, Direction: Ascending},
		page:    PageSpec{PageSize: pageSize, CurrentPage: 1},
	}
}

// Load replaces the whole dataset. The active search and sort are reapplied
// and the view returns to page 1.
func (e *Engine) Load(products []catalog.Product) View {
	e.dataset = cloneAll(products)
	e.page.CurrentPage = 1
	return e.rederive()
}

// Search sets the raw search query and returns to page 1.
func (e *Engine) Search(query string) View {
	e.query = query
	e.page.CurrentPage = 1
	return e.rederive()
}

// SortBy applies a column header click and returns to page 1. Unknown
// columns are ignored and the current view is returned unchanged.
func (e *Engine) SortBy(c Column) View {
	if _, ok := ParseColumn(string(c)); !ok {
		return e.View()
	}
	e.sort = e.sort.Toggle(c)
	e.page.CurrentPage = 1
	return e.rederive()
}

// SetPageSize changes the page size and returns to page 1.
func (e *Engine) SetPageSize(n int) (View, error) {
	if n <= 0 {
		return e.View(), ErrInvalidPageSize
	}
	e.page = PageSpec{PageSize: n, CurrentPage: 1}
	return e.View(), nil
}

// GoToPage moves to page n. Pages outside [1, TotalPages] are ignored and
// reported with changed=false.
func (e *Engine) GoToPage(n int) (v View, changed bool) {
	pages := TotalPages(len(e.working), e.page.PageSize)
	if n < 1 || n > pages {
		return e.View(), false
	}
	e.page.CurrentPage = n
	return e.View(), true
}

// ApplyCreate prepends a newly created product to the dataset and returns to
// page 1. The product shows up only if it matches the active search, at the
// position the active sort gives it.
func (e *Engine) ApplyCreate(p catalog.Product) View {
	e.dataset = slices.Insert(e.dataset, 0, p.Clone())
	e.page.CurrentPage = 1
	return e.rederive()
}

// ApplyUpdate shallow-merges patch into the product with the given id. A
// missing id is not an error: the state is left untouched and found is false.
func (e *Engine) ApplyUpdate(id int, patch catalog.Patch) (v View, found bool) {
	idx := slices.IndexFunc(e.dataset, func(p catalog.Product) bool { return p.ID == id })
	if idx < 0 {
		return e.View(), false
	}
	e.dataset[idx] = e.dataset[idx].Apply(patch)
	return e.rederive(), true
}

// Find returns the dataset product with the given id.
func (e *Engine) Find(id int) (catalog.Product, bool) {
	idx := slices.IndexFunc(e.dataset, func(p catalog.Product) bool { return p.ID == id })
	if idx < 0 {
		return catalog.Product{}, false
	}
	return e.dataset[idx].Clone(), true
}

// View returns the current page without changing any state.
func (e *Engine) View() View {
	return render(e.working, e.currentQuery())
}

// WorkingSet returns every product matching the active search, in display
// order, regardless of pagination.
func (e *Engine) WorkingSet() []catalog.Product {
	return cloneAll(e.working)
}

// Dataset returns a copy of the full dataset in storage order.
func (e *Engine) Dataset() []catalog.Product {
	return cloneAll(e.dataset)
}

// Len returns the dataset size.
func (e *Engine) Len() int {
	return len(e.dataset)
}

// SortSpec returns the active sort.
func (e *Engine) SortSpec() SortSpec {
	return e.sort
}

// PageSpec returns the active page spec, clamped to the working set.
func (e *Engine) PageSpec() PageSpec {
	return e.page.clamp(len(e.working))
}

func (e *Engine) currentQuery() Query {
	return Query{Search: e.query, Sort: e.sort, Page: e.page}
}

// rederive rebuilds the working set from the dataset and clamps the page.
func (e *Engine) rederive() View {
	e.working = Derive(e.dataset, e.query, e.sort)
	e.page = e.page.clamp(len(e.working))
	return e.View()
}

func cloneAll(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i := range products {
		out[i] = products[i].Clone()
	}
	return out
}
