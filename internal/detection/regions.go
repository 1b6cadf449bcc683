package detection

// Region is a maximal 4-connected set of same-valued pixels.
type Region struct {
	// Box is the tight bounding box of the region.
	Box BoundingBox `json:"bbox"`

	// Pixels is the number of pixels in the region.
	Pixels int `json:"pixels"`

	// FillRatio is Pixels / Box.Area(), in (0, 1].
	FillRatio float64 `json:"fill_ratio"`
}

// RegionOptions selects what ExtractRegions fills.
type RegionOptions struct {
	// Foreground fills dark pixels when true, background pixels otherwise.
	Foreground bool

	// MaxPixels drops every region with at least this many pixels.
	// Zero or negative disables the cap.
	MaxPixels int

	// SkipBorder prevents seeding on the outermost rows and columns. Regions
	// seeded inside may still reach the border.
	SkipBorder bool
}

// ExtractRegions returns the 4-connected regions of bm matching opts, in
// row-major order of their seed pixel.
//
// The fill is iterative with an explicit stack and each pixel is visited at
// most once. Regions that reach MaxPixels are still drained so none of their
// pixels can seed a fragment later, then discarded.
func ExtractRegions(bm *Bitmap, opts RegionOptions) []Region {
	width, height := bm.Width(), bm.Height()
	visited := make([]bool, width*height)
	regions := make([]Region, 0)

	x0, y0, x1, y1 := 0, 0, width, height
	if opts.SkipBorder {
		x0, y0, x1, y1 = 1, 1, width-1, height-1
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if visited[y*width+x] || bm.At(x, y) != opts.Foreground {
				continue
			}
			r, ok := floodFill(bm, visited, x, y, opts)
			if ok {
				regions = append(regions, r)
			}
		}
	}

	return regions
}

// floodFill grows one region from (startX, startY) using 4-connectivity and
// reports false when it reached the pixel cap.
func floodFill(bm *Bitmap, visited []bool, startX, startY int, opts RegionOptions) (Region, bool) {
	width, height := bm.Width(), bm.Height()
	stack := []Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	count := 0
	minX, minY, maxX, maxY := startX, startY, startX, startY

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count++
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		neighbors := [4]Point{
			{X: p.X + 1, Y: p.Y},
			{X: p.X - 1, Y: p.Y},
			{X: p.X, Y: p.Y + 1},
			{X: p.X, Y: p.Y - 1},
		}
		for _, n := range neighbors {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			idx := n.Y*width + n.X
			if visited[idx] || bm.At(n.X, n.Y) != opts.Foreground {
				continue
			}
			visited[idx] = true
			stack = append(stack, n)
		}
	}

	if opts.MaxPixels > 0 && count >= opts.MaxPixels {
		return Region{}, false
	}

	box := BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
	return Region{
		Box:       box,
		Pixels:    count,
		FillRatio: float64(count) / float64(box.Area()),
	}, true
}
