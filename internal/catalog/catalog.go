// Package catalog filters and sorts the in-memory product list the gallery
// fetched in full. Pure functions over slices; acceptable only because the
// catalog is small, which is a deliberate scalability non-goal.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"kunstgalerie/internal/model"
)

// SortKey selects the gallery ordering.
type SortKey string

const (
	SortTitle     SortKey = "title"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortYearDesc  SortKey = "year-desc"
)

// ParseSortKey maps user input to a SortKey. Empty input means SortTitle.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortTitle:
		return SortTitle, nil
	case SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	case SortYearDesc:
		return SortYearDesc, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Filter restricts the product list. Price bounds come straight from form
// input as strings; empty means unbounded, unparsable is an error rather
// than a silent zero.
type Filter struct {
	Category    string
	MinPrice    string
	MaxPrice    string
	InStockOnly bool
}

// parseBound parses one price bound. set is false for an empty input.
func parseBound(s string) (v float64, set bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid price bound %q", s)
	}
	return v, true, nil
}

// Apply returns the products matching the filter, in input order. Category
// is an exact match, bounds are inclusive. The input slice is not modified.
func (f Filter) Apply(in []model.Product) ([]model.Product, error) {
	min, hasMin, err := parseBound(f.MinPrice)
	if err != nil {
		return nil, err
	}
	max, hasMax, err := parseBound(f.MaxPrice)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(in))
	for _, p := range in {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if hasMin && p.Price < min {
			continue
		}
		if hasMax && p.Price > max {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// year treats a missing year as zero, which sorts last under year-desc.
func year(p model.Product) int {
	if p.Year == nil {
		return 0
	}
	return *p.Year
}

// Sort returns a sorted copy of in. Stable and input-preserving, so
// composing filter and sort is order-independent.
func Sort(in []model.Product, key SortKey) []model.Product {
	out := make([]model.Product, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortPriceAsc:
			return a.Price < b.Price
		case SortPriceDesc:
			return a.Price > b.Price
		case SortYearDesc:
			return year(a) > year(b)
		default:
			return a.Title < b.Title
		}
	})
	return out
}
