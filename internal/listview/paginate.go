package listview

import (
	"errors"
	"strconv"

	"github.com/erauner12/catalogview/internal/catalog"
)

const (
	// DefaultPageSize matches the page size the viewer starts with
	DefaultPageSize = 10

	// WindowSize is the maximum number of numbered page links
	WindowSize = 5
)

// ErrInvalidPageSize is returned for page sizes below 1
var ErrInvalidPageSize = errors.New("page size must be a positive integer")

// PageSpec is the requested page size and page number.
type PageSpec struct {
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
}

// TotalPages returns ceil(total/pageSize), or 0 for an empty set.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// clamp keeps CurrentPage within [1, totalPages]; an empty set yields page 1.
func (p PageSpec) clamp(total int) PageSpec {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	pages := TotalPages(total, p.PageSize)
	if p.CurrentPage > pages {
		p.CurrentPage = pages
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	return p
}

// PageLink is one numbered control in the page window.
type PageLink struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// PageMeta carries everything needed to render "showing X-Y of Z" and the
// Previous / numbered / Next controls.
type PageMeta struct {
	TotalItems   int        `json:"totalItems"`
	PageSize     int        `json:"pageSize"`
	CurrentPage  int        `json:"currentPage"`
	TotalPages   int        `json:"totalPages"`
	FirstIndex   int        `json:"firstIndex"`
	LastIndex    int        `json:"lastIndex"`
	HasPrevious  bool       `json:"hasPrevious"`
	HasNext      bool       `json:"hasNext"`
	PreviousPage int        `json:"previousPage"`
	NextPage     int        `json:"nextPage"`
	ShowControls bool       `json:"showControls"`
	Window       []PageLink `json:"window"`
}

// Summary is the "Showing X-Y of Z products" line.
func (m PageMeta) Summary() string {
	if m.TotalItems == 0 {
		return "No products"
	}
	return "Showing " + strconv.Itoa(m.FirstIndex) + "-" + strconv.Itoa(m.LastIndex) +
		" of " + strconv.Itoa(m.TotalItems) + " products"
}

// Paginate slices one page out of products. The requested page is clamped
// first, so any page number yields a valid page; the meta reflects the clamp.
func Paginate(products []catalog.Product, spec PageSpec) ([]catalog.Product, PageMeta) {
	total := len(products)
	spec = spec.clamp(total)

	meta := PageMeta{
		TotalItems:  total,
		PageSize:    spec.PageSize,
		CurrentPage: spec.CurrentPage,
		TotalPages:  TotalPages(total, spec.PageSize),
		Window:      []PageLink{},
	}

	if total == 0 {
		return []catalog.Product{}, meta
	}

	start := (spec.CurrentPage - 1) * spec.PageSize
	end := min(start+spec.PageSize, total)
	items := make([]catalog.Product, end-start)
	copy(items, products[start:end])

	meta.FirstIndex = start + 1
	meta.LastIndex = end
	meta.HasPrevious = spec.CurrentPage > 1
	meta.HasNext = spec.CurrentPage < meta.TotalPages
	meta.PreviousPage = spec.CurrentPage - 1
	meta.NextPage = spec.CurrentPage + 1
	if !meta.HasNext {
		meta.NextPage = 0
	}
	meta.ShowControls = meta.TotalPages > 1
	meta.Window = pageWindow(spec.CurrentPage, meta.TotalPages)

	return items, meta
}

// pageWindow centers up to WindowSize page numbers on current, shifting the
// window back inside [1, total] at either edge.
func pageWindow(current, total int) []PageLink {
	if total <= 1 {
		return []PageLink{}
	}

	start := max(1, current-WindowSize/2)
	end := min(total, start+WindowSize-1)
	if end-start < WindowSize-1 {
		start = max(1, end-WindowSize+1)
	}

	links := make([]PageLink, 0, end-start+1)
	for n := start; n <= end; n++ {
		links = append(links, PageLink{Number: n, Active: n == current})
	}
	return links
}
