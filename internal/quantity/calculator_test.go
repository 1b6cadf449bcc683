package quantity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
)

func newCalculator() Calculator {
	return NewCalculator(config.Default().Quantity)
}

func wall(length, thickness float64, sub detection.Subtype) detection.Element {
	return detection.Element{
		Kind:       detection.KindWall,
		Subtype:    sub,
		Confidence: 0.8,
		Dims: detection.WallDims{
			Length:    detection.Known(length),
			Thickness: detection.Known(thickness),
		},
		Props: detection.Properties{Label: "Außenwand"},
	}
}

func opening(kind detection.Kind, w, h float64) detection.Element {
	return detection.Element{
		Kind:       kind,
		Subtype:    detection.SubtypeStandard,
		Confidence: 0.7,
		Dims: detection.OpeningDims{
			Width:  detection.Known(w),
			Height: detection.Known(h),
		},
	}
}

func TestCalculateWall(t *testing.T) {
	result := newCalculator().Calculate([]detection.Element{
		wall(5.0, 0.24, detection.SubtypeExterior),
	})

	items := result.Items()
	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, 1, item.Position)
	assert.Equal(t, CategoryWalls, item.Category)
	assert.Equal(t, "Außenwand (exterior)", item.Description)
	assert.Equal(t, UnitSquareMeter, item.Unit)
	assert.InDelta(t, 13.75, item.Quantity, 1e-9)
	assert.Equal(t, 13.75, item.Dimensions["area_m2"])
	assert.Equal(t, 3.3, item.Dimensions["volume_m3"])
	assert.Equal(t, 0.24, item.Dimensions["thickness_m"])
	assert.Equal(t, "Länge: 5.00m, Höhe: 2.75m", item.Notes)
}

func TestCalculateWallDefaults(t *testing.T) {
	e := detection.Element{Kind: detection.KindWall}
	item := newCalculator().Calculate([]detection.Element{e}).Items()[0]

	assert.Equal(t, "Wand", item.Description)
	assert.Equal(t, 0.0, item.Quantity)
	assert.Equal(t, DefaultWallThickness, item.Dimensions["thickness_m"])
}

func TestCalculateWindow(t *testing.T) {
	item := newCalculator().Calculate([]detection.Element{
		opening(detection.KindWindow, 1.5, 1.2),
	}).Items()[0]

	assert.Equal(t, CategoryWindows, item.Category)
	assert.Equal(t, "Fenster", item.Description)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, UnitPiece, item.Unit)
	assert.Equal(t, 1.8, item.Dimensions["area_m2"])
	assert.Equal(t, "Größe: 1.50m x 1.20m", item.Notes)
}

func TestCalculateOpeningDefaults(t *testing.T) {
	items := newCalculator().Calculate([]detection.Element{
		{Kind: detection.KindDoor},
		{Kind: detection.KindWindow},
	}).Items()
	require.Len(t, items, 2)

	// windows are emitted before doors
	assert.Equal(t, CategoryWindows, items[0].Category)
	assert.Equal(t, 1.0, items[0].Dimensions["width_m"])
	assert.Equal(t, 1.2, items[0].Dimensions["height_m"])

	assert.Equal(t, CategoryDoors, items[1].Category)
	assert.Equal(t, "Tür", items[1].Description)
	assert.Equal(t, 0.88, items[1].Dimensions["width_m"])
	assert.Equal(t, 2.01, items[1].Dimensions["height_m"])
	assert.Equal(t, 1.77, items[1].Dimensions["area_m2"])
}

func TestCalculateColumn(t *testing.T) {
	e := detection.Element{
		Kind: detection.KindColumn,
		Dims: detection.ColumnDims{
			Width: detection.Known(0.4),
			Depth: detection.Known(0.5),
		},
		Props: detection.Properties{Label: detection.LabelColumn},
	}
	item := newCalculator().Calculate([]detection.Element{e}).Items()[0]

	assert.Equal(t, CategoryColumns, item.Category)
	assert.Equal(t, detection.LabelColumn, item.Description)
	assert.Equal(t, UnitCubicMeter, item.Unit)
	assert.InDelta(t, 0.55, item.Quantity, 1e-9)
	assert.Equal(t, 0.2, item.Dimensions["cross_section_m2"])
	assert.Equal(t, 0.55, item.Dimensions["volume_m3"])
}

func TestCalculateColumnDefaults(t *testing.T) {
	item := newCalculator().Calculate([]detection.Element{{Kind: detection.KindColumn}}).Items()[0]

	assert.Equal(t, "Stütze", item.Description)
	assert.Equal(t, 0.09, item.Dimensions["cross_section_m2"])
	assert.InDelta(t, 0.2475, item.Quantity, 1e-9)
}

func TestCalculateBeam(t *testing.T) {
	beam := detection.NewBeam(detection.BoundingBox{Width: 400, Height: 10}, detection.Known(4.0))
	item := newCalculator().Calculate([]detection.Element{beam}).Items()[0]

	assert.Equal(t, CategoryBeams, item.Category)
	assert.Equal(t, UnitCubicMeter, item.Unit)
	assert.InDelta(t, 0.6, item.Quantity, 1e-9)
	assert.Equal(t, 0.15, item.Dimensions["cross_section_m2"])
	assert.Equal(t, "Länge: 4.00m, Querschnitt: 0.30m x 0.50m", item.Notes)

	fallback := newCalculator().Calculate([]detection.Element{{Kind: detection.KindBeam}}).Items()[0]
	assert.InDelta(t, 0.15, fallback.Quantity, 1e-9)
	assert.Equal(t, "Unterzug", fallback.Description)
}

func TestCalculateSlab(t *testing.T) {
	slab := detection.NewSlab(detection.BoundingBox{Width: 1000, Height: 800}, detection.Known(80))
	item := newCalculator().Calculate([]detection.Element{slab}).Items()[0]

	assert.Equal(t, CategorySlabs, item.Category)
	assert.Equal(t, UnitSquareMeter, item.Unit)
	assert.Equal(t, 80.0, item.Quantity)
	assert.Equal(t, 16.0, item.Dimensions["volume_m3"])
	assert.Equal(t, "Fläche: 80.00m², Dicke: 20cm", item.Notes)
}

func TestCalculateOrderAndPositions(t *testing.T) {
	elements := []detection.Element{
		{Kind: detection.KindSlab},
		opening(detection.KindDoor, 0.9, 2.0),
		{Kind: detection.KindColumn},
		wall(3, 0.1, detection.SubtypeInterior),
		opening(detection.KindWindow, 1, 1),
		{Kind: detection.KindBeam},
		wall(4, 0.1, detection.SubtypeInterior),
	}
	items := newCalculator().Calculate(elements).Items()
	require.Len(t, items, len(elements))

	want := []string{
		CategoryWalls, CategoryWalls, CategoryWindows,
		CategoryDoors, CategoryColumns, CategoryBeams, CategorySlabs,
	}
	for i, item := range items {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, want[i], item.Category)
	}
	// input order is kept within a group
	assert.Equal(t, 3.0, items[0].Dimensions["length_m"])
	assert.Equal(t, 4.0, items[1].Dimensions["length_m"])
}

func TestCalculateIdempotent(t *testing.T) {
	elements := []detection.Element{
		wall(5.0, 0.24, detection.SubtypeExterior),
		opening(detection.KindWindow, 1.5, 1.2),
		{Kind: detection.KindColumn},
	}
	calc := newCalculator()

	first, err := json.Marshal(calc.Calculate(elements))
	require.NoError(t, err)
	second, err := json.Marshal(calc.Calculate(elements))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCalculateEmpty(t *testing.T) {
	result := newCalculator().Calculate(nil)
	assert.Equal(t, 0, result.Len())
	assert.Empty(t, result.Summary())
}

func TestWallArea(t *testing.T) {
	calc := newCalculator()
	walls := []detection.Element{
		wall(4, 0.24, detection.SubtypeExterior),
		wall(2, 0.24, detection.SubtypeExterior),
	}
	openings := []detection.Element{
		opening(detection.KindWindow, 1.0, 1.2),
		opening(detection.KindDoor, 0.88, 2.01),
	}

	assert.Equal(t, 16.5, calc.WallArea(walls, openings, false))
	// 16.5 - 1.2 - 1.7688
	assert.Equal(t, 13.53, calc.WallArea(walls, openings, true))
	assert.Equal(t, 0.0, calc.WallArea(nil, openings, true))
}

func TestConcreteVolume(t *testing.T) {
	calc := newCalculator()
	elements := []detection.Element{
		wall(5, 0.24, detection.SubtypeExterior),
		{
			Kind: detection.KindColumn,
			Dims: detection.ColumnDims{Width: detection.Known(0.4), Depth: detection.Known(0.5)},
		},
		detection.NewBeam(detection.BoundingBox{Width: 1, Height: 1}, detection.Known(2.0)),
		detection.NewSlab(detection.BoundingBox{Width: 1, Height: 1}, detection.Known(5)),
	}

	// 0.55 + 0.3 + 1.0
	assert.Equal(t, 1.85, calc.ConcreteVolume(elements))
	assert.Equal(t, 0.0, calc.ConcreteVolume(nil))
}
