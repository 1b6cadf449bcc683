// Package quantity turns classified building elements into a bill of
// quantities (Aufmaß).
//
// # Formulas
//
// Each element yields exactly one Item:
//
//   - wall: area = length × story height (m²); volume = area × thickness,
//     thickness 0.24 m when unknown
//   - window, door: quantity 1 (Stück); area = width × height, with
//     1.00 × 1.20 m and 0.88 × 2.01 m as fallbacks
//   - column: volume = width × depth × story height (m³), 0.30 × 0.30 m
//     cross-section when unknown
//   - beam: volume = 0.30 × 0.50 × length (m³)
//   - slab: quantity = area (m²); volume = area × slab thickness is recorded
//     as a dimension only
//
// # Rounding
//
// Item.Quantity keeps full precision. Dimensions are rounded for display:
// two decimals for lengths and areas, three for volumes and thicknesses, four
// for cross-sections. The Summary is summed at full precision and rounded to
// two decimals afterwards.
//
// # Usage
//
//	calc := quantity.NewCalculator(cfg.Quantity)
//	result := calc.Calculate(elements)
//	for _, item := range result.Items() {
//	    fmt.Println(item.Position, item.Description, item.Quantity, item.Unit)
//	}
package quantity
