package detection

import "github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"

// Opening labels.
const (
	LabelWindow = "Standard-Fenster"
	LabelDoor   = "Standard-Tür"
)

const openingConfidence = 0.7

// OpeningClassifier finds enclosed background gaps and sorts them into
// windows and doors.
type OpeningClassifier struct {
	minWidth  int
	maxWidth  int
	maxPixels int
}

// NewOpeningClassifier reads the opening width range and region cap from cfg.
func NewOpeningClassifier(cfg config.DetectionConfig) OpeningClassifier {
	return OpeningClassifier{
		minWidth:  cfg.MinOpeningWidth,
		maxWidth:  cfg.MaxOpeningWidth,
		maxPixels: cfg.MaxRegionPixels,
	}
}

// Gaps returns the background regions bounded by strokes whose size fits an
// opening: width in [min, max] and height in [min/2, max].
func (c OpeningClassifier) Gaps(bm *Bitmap) []Region {
	regions := ExtractRegions(bm, RegionOptions{
		Foreground: false,
		MaxPixels:  c.maxPixels,
		SkipBorder: true,
	})

	gaps := make([]Region, 0, len(regions))
	for _, r := range regions {
		w, h := r.Box.Width, r.Box.Height
		if w < c.minWidth || w > c.maxWidth {
			continue
		}
		if h < c.minWidth/2 || h > c.maxWidth {
			continue
		}
		gaps = append(gaps, r)
	}
	return gaps
}

// Classify labels each gap a window when its height is below twice its
// width and a door otherwise. Door-swing candidates are appended last.
func (c OpeningClassifier) Classify(bm *Bitmap, scale float64) []Element {
	gaps := c.Gaps(bm)
	openings := make([]Element, 0, len(gaps))

	for _, g := range gaps {
		w, h := g.Box.Width, g.Box.Height
		kind, label := KindDoor, LabelDoor
		if h < 2*w {
			kind, label = KindWindow, LabelWindow
		}
		openings = append(openings, Element{
			Kind:       kind,
			Subtype:    SubtypeStandard,
			Box:        g.Box,
			Confidence: openingConfidence,
			Dims: OpeningDims{
				WidthPx:  w,
				HeightPx: h,
				Width:    Known(float64(w) * scale),
				Height:   Known(float64(h) * scale),
			},
			Props: Properties{Label: label},
		})
	}

	return append(openings, c.DoorSwings(bm, scale)...)
}

// DoorSwings would recognize quarter-circle swing arcs. Arc fitting is not
// implemented; it always returns no candidates. See Capabilities.
func (c OpeningClassifier) DoorSwings(bm *Bitmap, scale float64) []Element {
	return nil
}
