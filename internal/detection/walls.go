package detection

import "github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"

// Wall labels as printed in German take-off lists.
const (
	LabelExteriorWall = "Außenwand"
	LabelInteriorWall = "Innenwand"
)

const wallConfidence = 0.8

// WallClassifier turns line-scanner runs into wall elements by thickness.
type WallClassifier struct {
	interiorMin int
	exteriorMin int
}

// NewWallClassifier reads the wall thickness thresholds from cfg.
func NewWallClassifier(cfg config.DetectionConfig) WallClassifier {
	return WallClassifier{
		interiorMin: cfg.InteriorWallMinThickness,
		exteriorMin: cfg.ExteriorWallMinThickness,
	}
}

// Classify keeps runs at least interiorMin thick. Runs at least exteriorMin
// thick become exterior walls, the rest interior walls.
func (c WallClassifier) Classify(runs []Run, scale float64) []Element {
	walls := make([]Element, 0, len(runs))

	for _, r := range runs {
		var subtype Subtype
		var label string
		switch {
		case r.Thickness >= c.exteriorMin:
			subtype, label = SubtypeExterior, LabelExteriorWall
		case r.Thickness >= c.interiorMin:
			subtype, label = SubtypeInterior, LabelInteriorWall
		default:
			continue
		}

		box := r.Box()
		length := box.Width
		if box.Height > length {
			length = box.Height
		}
		orientation := Vertical
		if box.Width > box.Height {
			orientation = Horizontal
		}

		walls = append(walls, Element{
			Kind:       KindWall,
			Subtype:    subtype,
			Box:        box,
			Confidence: wallConfidence,
			Dims: WallDims{
				LengthPx:    length,
				ThicknessPx: r.Thickness,
				Length:      Known(float64(length) * scale),
				Thickness:   Known(float64(r.Thickness) * scale),
			},
			Props: Properties{Label: label, Orientation: orientation},
		})
	}

	return walls
}
