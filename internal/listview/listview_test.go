package listview

import (
	"fmt"
	"testing"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, title string, price float64) catalog.Product {
	return catalog.Product{ID: id, Title: title, Price: price}
}

func ids(products []catalog.Product) []int {
	out := make([]int, len(products))
	for i := range products {
		out[i] = products[i].ID
	}
	return out
}

func prices(products []catalog.Product) []float64 {
	out := make([]float64, len(products))
	for i := range products {
		out[i] = products[i].Price
	}
	return out
}

func titles(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].Title
	}
	return out
}

func numbered(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = product(i+1, fmt.Sprintf("Item %02d", i+1), float64(10*(n-i)))
	}
	return out
}

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

func TestFilter_Shirt(t *testing.T) {
	dataset := []catalog.Product{
		product(1, "Red Shirt", 10),
		product(2, "Blue Hat", 20),
		product(3, "Green Shirt", 30),
	}

	got := Filter(dataset, "shirt")
	assert.Equal(t, []string{"Red Shirt", "Green Shirt"}, titles(got))
}

func TestFilter_EmptyTermReturnsDataset(t *testing.T) {
	dataset := []catalog.Product{product(3, "c", 1), product(1, "a", 2), product(2, "b", 3)}

	for _, term := range []string{"", "   ", "\t\n"} {
		assert.Equal(t, dataset, Filter(dataset, term), "term %q", term)
	}
}

func TestFilter_TrimsAndFoldsTerm(t *testing.T) {
	dataset := []catalog.Product{product(1, "Classic SHIRT", 1), product(2, "Hat", 1)}

	assert.Equal(t, []int{1}, ids(Filter(dataset, "  ShIrT  ")))
	assert.Equal(t, "shirt", NormalizeTerm("  ShIrT  "))
}

func TestFilter_SubstringOnly(t *testing.T) {
	dataset := []catalog.Product{product(1, "Red Shirt", 1)}

	assert.Empty(t, Filter(dataset, "shirt red"), "no tokenization")
	assert.Len(t, Filter(dataset, "d sh"), 1)
}

func TestFilter_Idempotent(t *testing.T) {
	dataset := numbered(30)
	dataset = append(dataset, product(99, "Shirt", 5), product(100, "T-SHIRT", 6))

	for _, term := range []string{"", "item 1", "shirt", "zzz", " 0"} {
		once := Filter(dataset, term)
		twice := Filter(once, term)
		assert.Equal(t, ids(once), ids(twice), "term %q", term)
	}
}

func TestFilter_DoesNotAliasDataset(t *testing.T) {
	dataset := []catalog.Product{product(1, "a", 1)}
	got := Filter(dataset, "")
	got[0].Title = "changed"
	assert.Equal(t, "a", dataset[0].Title)
}

func TestFilterStatus_Message(t *testing.T) {
	assert.Equal(t, "", FilterStatus{}.Message())
	assert.Equal(t, `No products match "Blue Whale"`,
		FilterStatus{Query: "Blue Whale", Term: "blue whale"}.Message())
	assert.Equal(t, "Found 1 matching product", FilterStatus{Query: "x", Term: "x", Matches: 1}.Message())
	assert.Equal(t, "Found 4 matching products", FilterStatus{Query: "x", Term: "x", Matches: 4}.Message())
}

// ---------------------------------------------------------------------------
// Sort
// ---------------------------------------------------------------------------

func TestSort_PriceScenario(t *testing.T) {
	ws := []catalog.Product{product(1, "a", 30), product(2, "b", 10), product(3, "c", 20)}

	spec := SortSpec{}.Toggle(ColumnPrice)
	assert.Equal(t, SortSpec{Column: ColumnPrice, Direction: Ascending}, spec)
	assert.Equal(t, []float64{10, 20, 30}, prices(Sort(ws, spec)))

	spec = spec.Toggle(ColumnPrice)
	assert.Equal(t, Descending, spec.Direction)
	assert.Equal(t, []float64{30, 20, 10}, prices(Sort(ws, spec)))
}

func TestSortSpec_ToggleCycle(t *testing.T) {
	first := SortSpec{}.Toggle(ColumnTitle)
	second := first.Toggle(ColumnTitle)
	third := second.Toggle(ColumnTitle)

	assert.Equal(t, Ascending, first.Direction)
	assert.Equal(t, Descending, second.Direction)
	assert.Equal(t, first, third)
}

func TestSortSpec_OtherColumnResetsAscending(t *testing.T) {
	spec := SortSpec{Column: ColumnTitle, Direction: Descending}.Toggle(ColumnPrice)
	assert.Equal(t, SortSpec{Column: ColumnPrice, Direction: Ascending}, spec)
}

func TestSortSpec_UnknownColumnIsNoop(t *testing.T) {
	spec := SortSpec{Column: ColumnTitle, Direction: Descending}
	assert.Equal(t, spec, spec.Toggle(Column("rating")))
	assert.Equal(t, spec, spec.Toggle(ColumnNone))
}

func TestSort_Stable(t *testing.T) {
	ws := []catalog.Product{
		product(1, "b", 5),
		product(2, "a", 5),
		product(3, "c", 1),
		product(4, "d", 5),
		product(5, "e", 1),
	}

	asc := Sort(ws, SortSpec{Column: ColumnPrice, Direction: Ascending})
	assert.Equal(t, []int{3, 5, 1, 2, 4}, ids(asc))

	desc := Sort(ws, SortSpec{Column: ColumnPrice, Direction: Descending})
	assert.Equal(t, []int{1, 2, 4, 3, 5}, ids(desc), "ties keep input order when descending")
}

func TestSort_TitleCaseFolded(t *testing.T) {
	ws := []catalog.Product{product(1, "banana", 1), product(2, "Apple", 1), product(3, "cherry", 1), product(4, "APPLE", 1)}

	got := Sort(ws, SortSpec{Column: ColumnTitle, Direction: Ascending})
	assert.Equal(t, []int{2, 4, 1, 3}, ids(got))
}

func TestSort_InactiveSpecKeepsOrder(t *testing.T) {
	ws := []catalog.Product{product(2, "b", 2), product(1, "a", 1)}
	assert.Equal(t, []int{2, 1}, ids(Sort(ws, SortSpec{})))
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("price")
	assert.True(t, ok)
	assert.Equal(t, ColumnPrice, c)

	_, ok = ParseColumn("category")
	assert.False(t, ok)
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Ascending, ParseDirection("sideways"))
}

// ---------------------------------------------------------------------------
// Paginate
// ---------------------------------------------------------------------------

func TestPaginate_TwelveRecords(t *testing.T) {
	ws := numbered(12)

	page1, meta := Paginate(ws, PageSpec{PageSize: 10, CurrentPage: 1})
	assert.Len(t, page1, 10)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 1, meta.FirstIndex)
	assert.Equal(t, 10, meta.LastIndex)
	assert.Equal(t, "Showing 1-10 of 12 products", meta.Summary())
	assert.False(t, meta.HasPrevious)
	assert.True(t, meta.HasNext)

	page2, meta := Paginate(ws, PageSpec{PageSize: 10, CurrentPage: 2})
	assert.Len(t, page2, 2)
	assert.Equal(t, 11, meta.FirstIndex)
	assert.Equal(t, 12, meta.LastIndex)
	assert.True(t, meta.HasPrevious)
	assert.False(t, meta.HasNext)
	assert.Equal(t, []PageLink{{Number: 1}, {Number: 2, Active: true}}, meta.Window)
}

func TestPaginate_SizesAndSums(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37, 100} {
		for _, size := range []int{1, 3, 10, 25} {
			ws := numbered(n)
			pages := TotalPages(n, size)
			seen := 0
			for p := 1; p <= pages; p++ {
				items, _ := Paginate(ws, PageSpec{PageSize: size, CurrentPage: p})
				require.LessOrEqual(t, len(items), size)
				if p < pages {
					require.Equal(t, size, len(items), "n=%d size=%d page=%d", n, size, p)
				}
				seen += len(items)
			}
			assert.Equal(t, n, seen, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginate_Empty(t *testing.T) {
	items, meta := Paginate(nil, PageSpec{PageSize: 10, CurrentPage: 3})
	assert.Empty(t, items)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, 0, meta.FirstIndex)
	assert.Equal(t, 0, meta.LastIndex)
	assert.False(t, meta.ShowControls)
	assert.Empty(t, meta.Window)
	assert.Equal(t, "No products", meta.Summary())
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	_, meta := Paginate(numbered(12), PageSpec{PageSize: 5, CurrentPage: 99})
	assert.Equal(t, 3, meta.CurrentPage)

	_, meta = Paginate(numbered(12), PageSpec{PageSize: 5, CurrentPage: -4})
	assert.Equal(t, 1, meta.CurrentPage)
}

func TestPaginate_SinglePageHidesControls(t *testing.T) {
	_, meta := Paginate(numbered(4), PageSpec{PageSize: 10, CurrentPage: 1})
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.ShowControls)
	assert.Empty(t, meta.Window)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 2, []int{1, 2}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{4, 10, []int{2, 3, 4, 5, 6}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{3, 4, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			links := pageWindow(tt.current, tt.total)
			got := make([]int, len(links))
			for i, l := range links {
				got[i] = l.Number
				assert.Equal(t, l.Number == tt.current, l.Active)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

func TestEngine_LoadAndPages(t *testing.T) {
	e := NewEngine(10)
	v := e.Load(numbered(12))

	assert.Len(t, v.Items, 10)
	assert.Equal(t, 2, v.Page.TotalPages)

	v, changed := e.GoToPage(2)
	assert.True(t, changed)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, 2, v.Page.CurrentPage)
}

func TestEngine_GoToPageOutOfRangeIsNoop(t *testing.T) {
	e := NewEngine(5)
	e.Load(numbered(12))
	e.GoToPage(2)
	before := e.View()

	for _, n := range []int{0, -1, 4, 100} {
		v, changed := e.GoToPage(n)
		assert.False(t, changed, "page %d", n)
		assert.Equal(t, before, v, "page %d", n)
	}
}

func TestEngine_GoToPageKeepsSort(t *testing.T) {
	e := NewEngine(2)
	e.Load([]catalog.Product{product(1, "a", 30), product(2, "b", 10), product(3, "c", 20)})
	e.SortBy(ColumnPrice)

	v, _ := e.GoToPage(2)
	assert.Equal(t, []float64{30}, prices(v.Items))
	assert.Equal(t, SortSpec{Column: ColumnPrice, Direction: Ascending}, v.Sort)
	assert.Equal(t, []float64{10, 20, 30}, prices(e.WorkingSet()))
}

func TestEngine_SearchResetsPage(t *testing.T) {
	e := NewEngine(2)
	e.Load(numbered(10))
	e.GoToPage(3)

	v := e.Search("item")
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, 10, v.Filter.Matches)
	assert.Equal(t, "item", v.Filter.Query)
}

func TestEngine_SearchKeepsRawQuery(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{product(1, "Red Shirt", 1)})

	v := e.Search("  NOPE ")
	assert.Equal(t, "  NOPE ", v.Filter.Query)
	assert.Equal(t, "nope", v.Filter.Term)
	assert.Equal(t, 0, v.Filter.Matches)
	assert.Equal(t, `No products match "  NOPE "`, v.Filter.Message())
	assert.Empty(t, v.Items)
}

func TestEngine_SortResetsPageAndToggles(t *testing.T) {
	e := NewEngine(1)
	e.Load([]catalog.Product{product(1, "a", 30), product(2, "b", 10), product(3, "c", 20)})
	e.GoToPage(3)

	v := e.SortBy(ColumnPrice)
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, []float64{10, 20, 30}, prices(e.WorkingSet()))

	e.SortBy(ColumnPrice)
	assert.Equal(t, []float64{30, 20, 10}, prices(e.WorkingSet()))

	e.SortBy(ColumnPrice)
	assert.Equal(t, []float64{10, 20, 30}, prices(e.WorkingSet()))
}

func TestEngine_SortUnknownColumnIsNoop(t *testing.T) {
	e := NewEngine(1)
	e.Load(numbered(3))
	e.SortBy(ColumnTitle)
	e.GoToPage(2)
	before := e.View()

	v := e.SortBy(Column("rating"))
	assert.Equal(t, before, v)
	assert.Equal(t, 2, v.Page.CurrentPage)
}

func TestEngine_SortAppliesToFilteredSet(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{
		product(1, "Red Shirt", 30),
		product(2, "Blue Hat", 5),
		product(3, "Green Shirt", 10),
	})
	e.Search("shirt")

	v := e.SortBy(ColumnPrice)
	assert.Equal(t, []int{3, 1}, ids(v.Items))
}

func TestEngine_SetPageSize(t *testing.T) {
	e := NewEngine(10)
	e.Load(numbered(25))
	e.GoToPage(3)

	v, err := e.SetPageSize(20)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, 2, v.Page.TotalPages)

	_, err = e.SetPageSize(0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	assert.Equal(t, 20, e.PageSpec().PageSize)
}

func TestEngine_ApplyUpdateScenario(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{product(5, "X", 10), product(6, "Y", 20)})
	e.Search("x")

	price := 99.0
	v, found := e.ApplyUpdate(5, catalog.Patch{Price: &price})
	require.True(t, found)

	want := product(5, "X", 99)
	stored, ok := e.Find(5)
	require.True(t, ok)
	assert.Equal(t, want, stored)
	assert.Equal(t, []catalog.Product{want}, e.WorkingSet())
	assert.Equal(t, []catalog.Product{want}, v.Items)
}

func TestEngine_ApplyUpdateMissingIDIsNoop(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{product(5, "X", 10)})
	before := e.View()

	title := "ghost"
	v, found := e.ApplyUpdate(404, catalog.Patch{Title: &title})
	assert.False(t, found)
	assert.Equal(t, before, v)
	assert.Equal(t, []catalog.Product{product(5, "X", 10)}, e.Dataset())
}

func TestEngine_ApplyUpdateResortsAndRefilters(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{product(1, "Red Shirt", 10), product(2, "Green Shirt", 20)})
	e.Search("shirt")
	e.SortBy(ColumnPrice)

	price := 5.0
	e.ApplyUpdate(2, catalog.Patch{Price: &price})
	assert.Equal(t, []int{2, 1}, ids(e.WorkingSet()))

	title := "Red Hat"
	e.ApplyUpdate(1, catalog.Patch{Title: &title})
	assert.Equal(t, []int{2}, ids(e.WorkingSet()))
	assert.Equal(t, 2, e.Len())
}

func TestEngine_ApplyUpdateClampsPage(t *testing.T) {
	e := NewEngine(1)
	e.Load([]catalog.Product{product(1, "Shirt A", 1), product(2, "Shirt B", 2)})
	e.Search("shirt")
	e.GoToPage(2)

	title := "Hat"
	v, _ := e.ApplyUpdate(2, catalog.Patch{Title: &title})
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, 1, v.Page.TotalPages)
}

func TestEngine_ApplyCreatePrependsAndResetsPage(t *testing.T) {
	e := NewEngine(2)
	e.Load(numbered(5))
	e.GoToPage(3)

	v := e.ApplyCreate(product(50, "New thing", 1))
	assert.Equal(t, 1, v.Page.CurrentPage)
	assert.Equal(t, 50, v.Items[0].ID)
	assert.Equal(t, 50, e.Dataset()[0].ID)
	assert.Equal(t, 6, e.Len())
}

func TestEngine_ApplyCreateRespectsFilterAndSort(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{product(1, "Red Shirt", 10), product(2, "Blue Hat", 20)})
	e.Search("shirt")
	e.SortBy(ColumnPrice)

	e.ApplyCreate(product(3, "Green Hat", 1))
	assert.Equal(t, []int{1}, ids(e.WorkingSet()), "non-matching record stays hidden")
	assert.Equal(t, 3, e.Len())

	e.ApplyCreate(product(4, "Cheap Shirt", 99))
	assert.Equal(t, []int{1, 4}, ids(e.WorkingSet()), "matching record takes its sorted position")
}

func TestEngine_ViewIsSnapshot(t *testing.T) {
	e := NewEngine(10)
	e.Load([]catalog.Product{{ID: 1, Title: "a", Images: []string{"x"}}})

	v := e.View()
	v.Items[0].Title = "mutated"
	v.Items[0].Images[0] = "mutated"

	stored, _ := e.Find(1)
	assert.Equal(t, "a", stored.Title)
	assert.Equal(t, []string{"x"}, stored.Images)
}

func TestEngine_LoadKeepsSearchAndSort(t *testing.T) {
	e := NewEngine(10)
	e.Search("shirt")
	e.SortBy(ColumnTitle)

	v := e.Load([]catalog.Product{product(1, "b shirt", 1), product(2, "hat", 1), product(3, "a shirt", 1)})
	assert.Equal(t, []int{3, 1}, ids(v.Items))
}

func TestEvaluate_Stateless(t *testing.T) {
	dataset := numbered(12)
	v := Evaluate(dataset, Query{
		Search: "item",
		Sort:   SortSpec{Column: ColumnPrice, Direction: Ascending},
		Page:   PageSpec{PageSize: 5, CurrentPage: 3},
	})

	assert.Equal(t, 12, v.Filter.Matches)
	assert.Equal(t, 3, v.Page.CurrentPage)
	assert.Equal(t, []int{2, 1}, ids(v.Items))
	assert.Equal(t, 1, dataset[0].ID, "dataset untouched")
}

func TestSort_TitleKeysFoldedOncePerProduct(t *testing.T) {
	ws := make([]catalog.Product, 0, 200)
	for i := 200; i > 0; i-- {
		ws = append(ws, product(i, fmt.Sprintf("Item %03d", i), 1))
	}
	ws = append(ws, product(0, "ITEM 050", 1))

	got := Sort(ws, SortSpec{Column: ColumnTitle, Direction: Ascending})
	require.Len(t, got, len(ws))
	assert.Equal(t, "Item 001", got[0].Title)
	assert.Equal(t, []int{50, 0}, ids(got[49:51]), "equal folded keys keep input order")

	desc := Sort(ws, SortSpec{Column: ColumnTitle, Direction: Descending})
	assert.Equal(t, "Item 200", desc[0].Title)
	assert.Equal(t, []int{50, 0}, ids(desc[150:152]))
	assert.Equal(t, 200, ws[0].ID, "input left untouched")
}
