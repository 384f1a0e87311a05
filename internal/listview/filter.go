package listview

import (
	"slices"
	"strconv"
	"strings"

	"github.com/erauner12/catalogview/internal/catalog"
	"golang.org/x/text/cases"
)

// fold case-folds s. A cases.Caser is stateful, so every call builds its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeTerm trims and case-folds a raw search query.
func NormalizeTerm(query string) string {
	return fold(strings.TrimSpace(query))
}

// Filter returns the products whose case-folded title contains the normalized
// query, in dataset order. An empty query returns the whole dataset.
func Filter(dataset []catalog.Product, query string) []catalog.Product {
	term := NormalizeTerm(query)
	if term == "" {
		return slices.Clone(dataset)
	}

	out := make([]catalog.Product, 0, len(dataset))
	for i := range dataset {
		if strings.Contains(fold(dataset[i].Title), term) {
			out = append(out, dataset[i])
		}
	}
	return out
}

// FilterStatus describes the active search for status text.
type FilterStatus struct {
	Query   string `json:"query"`
	Term    string `json:"term"`
	Matches int    `json:"matches"`
}

// Active reports whether a non-blank search is applied.
func (f FilterStatus) Active() bool {
	return f.Term != ""
}

// Message is the human-readable search result line. It is empty when no
// search is active.
func (f FilterStatus) Message() string {
	switch {
	case !f.Active():
		return ""
	case f.Matches == 0:
		return `No products match "` + f.Query + `"`
	case f.Matches == 1:
		return "Found 1 matching product"
	default:
		return "Found " + strconv.Itoa(f.Matches) + " matching products"
	}
}
