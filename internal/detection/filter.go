package detection

// FilterByType returns the elements of the given kind, preserving order.
// The input slice is not modified.
func FilterByType(elements []Element, kind Kind) []Element {
	return filter(elements, func(e Element) bool { return e.Kind == kind })
}

// FilterBySubtype returns the elements with the given subtype, preserving order.
func FilterBySubtype(elements []Element, subtype Subtype) []Element {
	return filter(elements, func(e Element) bool { return e.Subtype == subtype })
}

// FilterByConfidence returns the elements with confidence >= min, preserving order.
func FilterByConfidence(elements []Element, min float64) []Element {
	return filter(elements, func(e Element) bool { return e.Confidence >= min })
}

// CountByKind tallies elements per kind. Every kind is present in the result.
func CountByKind(elements []Element) map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		counts[k] = 0
	}
	for _, e := range elements {
		counts[e.Kind]++
	}
	return counts
}

func filter(elements []Element, keep func(Element) bool) []Element {
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
