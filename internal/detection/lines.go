package detection

import "sort"

// Run is an axis-aligned stroke found by the line scanner.
type Run struct {
	Orientation Orientation `json:"orientation"`

	// X, Y is the first pixel of the run.
	X int `json:"x"`
	Y int `json:"y"`

	// Length is measured along the scan direction.
	Length int `json:"length"`

	// Thickness is the median perpendicular extent of the stroke.
	Thickness int `json:"thickness"`
}

// Box returns (x, y, length, thickness) for horizontal runs and
// (x, y, thickness, length) for vertical ones.
func (r Run) Box() BoundingBox {
	if r.Orientation == Horizontal {
		return BoundingBox{X: r.X, Y: r.Y, Width: r.Length, Height: r.Thickness}
	}
	return BoundingBox{X: r.X, Y: r.Y, Width: r.Thickness, Height: r.Length}
}

// LineOptions configures ScanLines.
type LineOptions struct {
	// MinLength is the shortest run considered, in pixels.
	MinLength int

	// MinThickness discards thinner runs. Values below 1 are treated as 1.
	MinThickness int
}

// maxThicknessSamples bounds the perpendicular probes per run.
const maxThicknessSamples = 10

// ScanLines runs the horizontal pass followed by the vertical pass.
//
// The passes keep separate visited masks, so a square blob may be reported
// once per direction. Callers must not assume the runs are disjoint.
func ScanLines(bm *Bitmap, opts LineOptions) []Run {
	runs := ScanHorizontal(bm, opts)
	return append(runs, ScanVertical(bm, opts)...)
}

// ScanHorizontal finds runs along rows.
func ScanHorizontal(bm *Bitmap, opts LineOptions) []Run {
	return scan(bm, opts, Horizontal)
}

// ScanVertical finds runs along columns.
func ScanVertical(bm *Bitmap, opts LineOptions) []Run {
	return scan(bm, opts, Vertical)
}

// scan walks every line of the bitmap in the given direction. u is the
// position along the scan direction and v the index of the line, so for the
// horizontal pass (u, v) = (x, y).
func scan(bm *Bitmap, opts LineOptions, o Orientation) []Run {
	minThickness := opts.MinThickness
	if minThickness < 1 {
		minThickness = 1
	}

	lineLen, lineCount := bm.Width(), bm.Height()
	at := func(u, v int) bool { return bm.At(u, v) }
	if o == Vertical {
		lineLen, lineCount = bm.Height(), bm.Width()
		at = func(u, v int) bool { return bm.At(v, u) }
	}

	visited := make([]bool, lineLen*lineCount)
	runs := make([]Run, 0)

	for v := 0; v < lineCount; v++ {
		u := 0
		for u < lineLen {
			if !at(u, v) || visited[v*lineLen+u] {
				u++
				continue
			}

			end := u
			for end < lineLen && at(end, v) {
				end++
			}
			length := end - u

			if length >= opts.MinLength {
				thickness := estimateLineThickness(at, u, v, length, lineLen, lineCount)
				if thickness >= minThickness {
					r := Run{Orientation: o, Length: length, Thickness: thickness}
					if o == Horizontal {
						r.X, r.Y = u, v
					} else {
						r.X, r.Y = v, u
					}
					runs = append(runs, r)
				}
				for dv := 0; dv < thickness && v+dv < lineCount; dv++ {
					row := (v + dv) * lineLen
					for i := u; i < end; i++ {
						visited[row+i] = true
					}
				}
			}

			u = end
		}
	}

	return runs
}

// estimateLineThickness samples the stroke perpendicular to the run at up to
// ten evenly spaced points and returns the median count of consecutive
// foreground pixels. An even sample count averages the middle pair and
// truncates.
func estimateLineThickness(at func(u, v int) bool, u, v, length, lineLen, lineCount int) int {
	samples := maxThicknessSamples
	if length < samples {
		samples = length
	}

	thicknesses := make([]int, 0, samples)
	for i := 0; i < samples; i++ {
		su := u + (i*length)/samples
		if su >= lineLen {
			continue
		}
		t := 0
		for dv := v; dv < lineCount && at(su, dv); dv++ {
			t++
		}
		thicknesses = append(thicknesses, t)
	}

	if len(thicknesses) == 0 {
		return 0
	}

	sort.Ints(thicknesses)
	mid := len(thicknesses) / 2
	if len(thicknesses)%2 == 1 {
		return thicknesses[mid]
	}
	return (thicknesses[mid-1] + thicknesses[mid]) / 2
}
