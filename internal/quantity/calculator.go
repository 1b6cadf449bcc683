package quantity

import (
	"fmt"
	"math"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
)

// Fallback measurements for elements whose dimensions are absent.
const (
	DefaultWallThickness = 0.24
	DefaultWindowWidth   = 1.0
	DefaultWindowHeight  = 1.2
	DefaultDoorWidth     = 0.88
	DefaultDoorHeight    = 2.01
	DefaultColumnWidth   = 0.3
	DefaultColumnDepth   = 0.3
	DefaultBeamLength    = 1.0

	// Beams are priced on a fixed cross-section.
	BeamWidth  = 0.30
	BeamHeight = 0.50
)

// Fallback descriptions, used when an element carries no label.
const (
	defaultWallLabel   = "Wand"
	defaultWindowLabel = "Fenster"
	defaultDoorLabel   = "Tür"
	defaultColumnLabel = "Stütze"
	defaultBeamLabel   = "Unterzug"
	defaultSlabLabel   = "Decke"
)

// Calculator converts classified elements into take-off items.
// It holds no state between calls and is safe for concurrent use.
type Calculator struct {
	wallHeight    float64
	slabThickness float64
}

// NewCalculator reads the story height and slab thickness from cfg.
func NewCalculator(cfg config.QuantityConfig) Calculator {
	return Calculator{
		wallHeight:    cfg.WallHeight,
		slabThickness: cfg.SlabThickness,
	}
}

// Calculate produces one item per element, grouped in the order walls,
// windows, doors, columns, beams, slabs, with positions starting at 1.
// Within a group the input order is kept. The input is not modified.
func (c Calculator) Calculate(elements []detection.Element) *Result {
	items := make([]Item, 0, len(elements))
	for _, kind := range detection.Kinds {
		for _, e := range elements {
			if e.Kind != kind {
				continue
			}
			item := c.item(e)
			item.Position = len(items) + 1
			items = append(items, item)
		}
	}
	return NewResult(items)
}

func (c Calculator) item(e detection.Element) Item {
	switch e.Kind {
	case detection.KindWall:
		return c.wallItem(e)
	case detection.KindWindow:
		return openingItem(e, CategoryWindows, defaultWindowLabel, DefaultWindowWidth, DefaultWindowHeight)
	case detection.KindDoor:
		return openingItem(e, CategoryDoors, defaultDoorLabel, DefaultDoorWidth, DefaultDoorHeight)
	case detection.KindColumn:
		return c.columnItem(e)
	case detection.KindBeam:
		return beamItem(e)
	case detection.KindSlab:
		return c.slabItem(e)
	default:
		panic(fmt.Sprintf("quantity: unhandled element kind %v", e.Kind))
	}
}

func (c Calculator) wallItem(e detection.Element) Item {
	var d detection.WallDims
	if wd, ok := e.Dims.(detection.WallDims); ok {
		d = wd
	}
	length := d.Length.Or(0)
	thickness := d.Thickness.Or(DefaultWallThickness)
	area := length * c.wallHeight
	volume := area * thickness

	desc := label(e, defaultWallLabel)
	if e.Subtype != detection.SubtypeNone {
		desc = fmt.Sprintf("%s (%s)", desc, e.Subtype)
	}

	return Item{
		Category:    CategoryWalls,
		Description: desc,
		Quantity:    area,
		Unit:        UnitSquareMeter,
		Dimensions: map[string]float64{
			"length_m":    Round(length, 2),
			"height_m":    Round(c.wallHeight, 2),
			"thickness_m": Round(thickness, 3),
			"area_m2":     Round(area, 2),
			"volume_m3":   Round(volume, 3),
		},
		Notes: fmt.Sprintf("Länge: %.2fm, Höhe: %.2fm", length, c.wallHeight),
	}
}

func openingItem(e detection.Element, category, fallback string, defWidth, defHeight float64) Item {
	var d detection.OpeningDims
	if od, ok := e.Dims.(detection.OpeningDims); ok {
		d = od
	}
	width := d.Width.Or(defWidth)
	height := d.Height.Or(defHeight)

	return Item{
		Category:    category,
		Description: label(e, fallback),
		Quantity:    1,
		Unit:        UnitPiece,
		Dimensions: map[string]float64{
			"width_m":  Round(width, 2),
			"height_m": Round(height, 2),
			"area_m2":  Round(width*height, 2),
		},
		Notes: fmt.Sprintf("Größe: %.2fm x %.2fm", width, height),
	}
}

func (c Calculator) columnItem(e detection.Element) Item {
	var d detection.ColumnDims
	if cd, ok := e.Dims.(detection.ColumnDims); ok {
		d = cd
	}
	width := d.Width.Or(DefaultColumnWidth)
	depth := d.Depth.Or(DefaultColumnDepth)
	section := width * depth
	volume := section * c.wallHeight

	return Item{
		Category:    CategoryColumns,
		Description: label(e, defaultColumnLabel),
		Quantity:    volume,
		Unit:        UnitCubicMeter,
		Dimensions: map[string]float64{
			"width_m":          Round(width, 2),
			"depth_m":          Round(depth, 2),
			"height_m":         Round(c.wallHeight, 2),
			"cross_section_m2": Round(section, 4),
			"volume_m3":        Round(volume, 3),
		},
		Notes: fmt.Sprintf("Querschnitt: %.2fm x %.2fm, Höhe: %.2fm", width, depth, c.wallHeight),
	}
}

func beamItem(e detection.Element) Item {
	var d detection.BeamDims
	if bd, ok := e.Dims.(detection.BeamDims); ok {
		d = bd
	}
	length := d.Length.Or(DefaultBeamLength)
	section := BeamWidth * BeamHeight
	volume := section * length

	return Item{
		Category:    CategoryBeams,
		Description: label(e, defaultBeamLabel),
		Quantity:    volume,
		Unit:        UnitCubicMeter,
		Dimensions: map[string]float64{
			"length_m":         Round(length, 2),
			"width_m":          Round(BeamWidth, 2),
			"height_m":         Round(BeamHeight, 2),
			"cross_section_m2": Round(section, 4),
			"volume_m3":        Round(volume, 3),
		},
		Notes: fmt.Sprintf("Länge: %.2fm, Querschnitt: %.2fm x %.2fm", length, BeamWidth, BeamHeight),
	}
}

func (c Calculator) slabItem(e detection.Element) Item {
	var d detection.SlabDims
	if sd, ok := e.Dims.(detection.SlabDims); ok {
		d = sd
	}
	area := d.Area.Or(0)
	volume := area * c.slabThickness

	return Item{
		Category:    CategorySlabs,
		Description: label(e, defaultSlabLabel),
		Quantity:    area,
		Unit:        UnitSquareMeter,
		Dimensions: map[string]float64{
			"area_m2":     Round(area, 2),
			"thickness_m": Round(c.slabThickness, 3),
			"volume_m3":   Round(volume, 3),
		},
		Notes: fmt.Sprintf("Fläche: %.2fm², Dicke: %.0fcm", area, c.slabThickness*100),
	}
}

// WallArea returns the summed wall surface at story height. With deduct set,
// the areas of the given openings are subtracted. The total is floored at
// zero and rounded to two decimals.
func (c Calculator) WallArea(walls, openings []detection.Element, deduct bool) float64 {
	total := 0.0
	for _, w := range walls {
		if d, ok := w.Dims.(detection.WallDims); ok {
			total += d.Length.Or(0) * c.wallHeight
		}
	}
	if deduct {
		for _, o := range openings {
			if d, ok := o.Dims.(detection.OpeningDims); ok {
				total -= d.Width.Or(0) * d.Height.Or(0)
			}
		}
	}
	return Round(math.Max(0, total), 2)
}

// ConcreteVolume sums the volumes of columns, beams and slabs as computed
// by Calculate, rounded to three decimals.
func (c Calculator) ConcreteVolume(elements []detection.Element) float64 {
	total := 0.0
	for _, e := range elements {
		switch e.Kind {
		case detection.KindColumn:
			total += c.columnItem(e).Quantity
		case detection.KindBeam:
			total += beamItem(e).Quantity
		case detection.KindSlab:
			total += c.slabItem(e).Quantity * c.slabThickness
		}
	}
	return Round(total, 3)
}

func label(e detection.Element, fallback string) string {
	if e.Props.Label != "" {
		return e.Props.Label
	}
	return fallback
}
