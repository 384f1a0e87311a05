package listview

import "github.com/erauner12/catalogview/internal/catalog"

// View is an immutable snapshot of what should be displayed right now. Its
// slices are copies; callers may keep or modify them freely.
type View struct {
	Items  []catalog.Product `json:"items"`
	Page   PageMeta          `json:"page"`
	Sort   SortSpec          `json:"sort"`
	Filter FilterStatus      `json:"filter"`
}

// Query is a complete, stateless description of a view.
type Query struct {
	Search string
	Sort   SortSpec
	Page   PageSpec
}

// Derive builds the working set: filter by query, then stable sort.
func Derive(dataset []catalog.Product, query string, spec SortSpec) []catalog.Product {
	return Sort(Filter(dataset, query), spec)
}

// Evaluate runs filter, sort and pagination over dataset without touching any
// engine state.
func Evaluate(dataset []catalog.Product, q Query) View {
	working := Derive(dataset, q.Search, q.Sort)
	return render(working, q)
}

func render(working []catalog.Product, q Query) View {
	items, meta := Paginate(working, q.Page)
	return View{
		Items: cloneAll(items),
		Page:  meta,
		Sort:  q.Sort,
		Filter: FilterStatus{
			Query:   q.Search,
			Term:    NormalizeTerm(q.Search),
			Matches: len(working),
		},
	}
}
