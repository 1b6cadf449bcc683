package quantity

import (
	"encoding/json"
	"math"
	"sort"
)

// Unit of a take-off quantity.
type Unit string

const (
	UnitMeter       Unit = "m"
	UnitSquareMeter Unit = "m²"
	UnitCubicMeter  Unit = "m³"
	UnitPiece       Unit = "Stück"
)

// Categories in take-off order.
const (
	CategoryWalls   = "Wände"
	CategoryWindows = "Fenster"
	CategoryDoors   = "Türen"
	CategoryColumns = "Stützen"
	CategoryBeams   = "Unterzüge"
	CategorySlabs   = "Decken"
)

// Categories lists every category in the order items are emitted.
var Categories = []string{
	CategoryWalls, CategoryWindows, CategoryDoors,
	CategoryColumns, CategoryBeams, CategorySlabs,
}

// Item is one line of the bill of quantities.
type Item struct {
	// Position is the 1-based line number, unique within a Result.
	Position int `json:"position"`

	Category    string `json:"category"`
	Description string `json:"description"`

	// Quantity is kept at full precision; round only for display.
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`

	// Dimensions is a rounded snapshot of the measurements behind Quantity.
	Dimensions map[string]float64 `json:"dimensions"`

	Notes string `json:"notes"`
}

// Summary totals quantities per category and unit, rounded to two decimals.
type Summary map[string]map[Unit]float64

// Result is the ordered bill of quantities with its derived summary.
// It is built by Calculator and read-only afterwards.
type Result struct {
	items   []Item
	summary Summary
}

// NewResult wraps items and derives their summary.
func NewResult(items []Item) *Result {
	return &Result{items: items, summary: summarize(items)}
}

// Items returns a copy of the line items in position order.
func (r *Result) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of line items.
func (r *Result) Len() int {
	return len(r.items)
}

// Summary returns a copy of the category totals.
func (r *Result) Summary() Summary {
	out := make(Summary, len(r.summary))
	for cat, units := range r.summary {
		out[cat] = make(map[Unit]float64, len(units))
		for u, v := range units {
			out[cat][u] = v
		}
	}
	return out
}

// TotalByCategory returns the per-unit totals of one category, or an empty
// map when the category has no items.
func (r *Result) TotalByCategory(category string) map[Unit]float64 {
	out := make(map[Unit]float64)
	for u, v := range r.summary[category] {
		out[u] = v
	}
	return out
}

// FilterByCategory returns the items of one category in position order.
func (r *Result) FilterByCategory(category string) []Item {
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// SortedCategories returns the categories present in the summary, known
// categories first in take-off order, then any others alphabetically.
func (s Summary) SortedCategories() []string {
	out := make([]string, 0, len(s))
	for _, c := range Categories {
		if _, ok := s[c]; ok {
			out = append(out, c)
		}
	}
	extra := make([]string, 0)
	for c := range s {
		if !isKnownCategory(c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// SortedUnits returns the units of one category in lexical order.
func (s Summary) SortedUnits(category string) []Unit {
	units := make([]Unit, 0, len(s[category]))
	for u := range s[category] {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}

// MarshalJSON renders {"items": [...], "summary": {...}}.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items   []Item  `json:"items"`
		Summary Summary `json:"summary"`
	}{Items: r.Items(), Summary: r.Summary()})
}

func summarize(items []Item) Summary {
	s := make(Summary)
	for _, it := range items {
		if s[it.Category] == nil {
			s[it.Category] = make(map[Unit]float64)
		}
		s[it.Category][it.Unit] += it.Quantity
	}
	for _, units := range s {
		for u, v := range units {
			units[u] = Round(v, 2)
		}
	}
	return s
}

func isKnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
