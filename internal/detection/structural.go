package detection

import "github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"

// Structural labels.
const (
	LabelColumn = "Rechteckstütze"
	LabelBeam   = "Unterzug"
	LabelSlab   = "Geschossdecke"
)

const (
	columnConfidence = 0.75
	beamConfidence   = 0.65
	slabConfidence   = 0.6

	columnMaxAspect    = 3.0
	columnMinFillRatio = 0.7
)

// StructuralClassifier finds load-bearing elements: columns from compact
// filled regions, beams and slabs through dedicated (unimplemented) passes.
type StructuralClassifier struct {
	minSize   int
	maxSize   int
	maxPixels int
}

// NewStructuralClassifier reads the column size range and region cap from cfg.
func NewStructuralClassifier(cfg config.DetectionConfig) StructuralClassifier {
	return StructuralClassifier{
		minSize:   cfg.MinColumnSize,
		maxSize:   cfg.MaxColumnSize,
		maxPixels: cfg.MaxRegionPixels,
	}
}

// Classify returns columns, then beams, then slabs.
func (c StructuralClassifier) Classify(bm *Bitmap, scale float64) []Element {
	elements := c.Columns(bm, scale)
	elements = append(elements, c.Beams(bm, scale)...)
	return append(elements, c.Slabs(bm, scale)...)
}

// Columns keeps foreground regions with both sides in [min, max], an aspect
// ratio below 3 and a fill ratio above 0.7.
func (c StructuralClassifier) Columns(bm *Bitmap, scale float64) []Element {
	regions := ExtractRegions(bm, RegionOptions{
		Foreground: true,
		MaxPixels:  c.maxPixels,
	})

	columns := make([]Element, 0)
	for _, r := range regions {
		w, h := r.Box.Width, r.Box.Height
		if w < c.minSize || w > c.maxSize || h < c.minSize || h > c.maxSize {
			continue
		}
		long, short := w, h
		if short > long {
			long, short = short, long
		}
		if float64(long)/float64(short) >= columnMaxAspect {
			continue
		}
		if r.FillRatio <= columnMinFillRatio {
			continue
		}

		width := float64(w) * scale
		depth := float64(h) * scale
		columns = append(columns, Element{
			Kind:       KindColumn,
			Subtype:    SubtypeStandard,
			Box:        r.Box,
			Confidence: columnConfidence,
			Dims: ColumnDims{
				WidthPx:      w,
				DepthPx:      h,
				Width:        Known(width),
				Depth:        Known(depth),
				CrossSection: Known(width * depth),
			},
			Props: Properties{Label: LabelColumn, FillRatio: Known(r.FillRatio)},
		})
	}
	return columns
}

// Beams would trace dashed lines marking downstand beams. Dash detection is
// not implemented; it always returns no candidates. See Capabilities.
func (c StructuralClassifier) Beams(bm *Bitmap, scale float64) []Element {
	return nil
}

// Slabs would find hatched floor areas. Hatch recognition is not
// implemented; it always returns no candidates. See Capabilities.
func (c StructuralClassifier) Slabs(bm *Bitmap, scale float64) []Element {
	return nil
}

// NewBeam builds a beam element from a traced span. It is exported for
// callers that supply beams from another source, such as a CAD layer.
func NewBeam(box BoundingBox, length Measure) Element {
	return Element{
		Kind:       KindBeam,
		Box:        box,
		Confidence: beamConfidence,
		Dims:       BeamDims{Length: length},
		Props:      Properties{Label: LabelBeam},
	}
}

// NewSlab builds a floor slab element from a measured area.
func NewSlab(box BoundingBox, area Measure) Element {
	return Element{
		Kind:       KindSlab,
		Subtype:    SubtypeFloor,
		Box:        box,
		Confidence: slabConfidence,
		Dims:       SlabDims{Area: area},
		Props:      Properties{Label: LabelSlab},
	}
}
