package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
)

// GridOverlayResult is an element overlay with a meter grid.
type GridOverlayResult struct {
	OverlayResult
	GridMeters  float64 `json:"grid_meters"`
	GridSpacing int     `json:"grid_spacing_pixels"`
}

// minGridSpacing keeps grids readable on coarse scales.
const minGridSpacing = 4

// GridSpacing converts a grid interval in meters to pixels.
func GridSpacing(gridMeters, metersPerPixel float64) (int, error) {
	if gridMeters <= 0 || metersPerPixel <= 0 {
		return 0, fmt.Errorf("invalid grid %gm at %g m/px", gridMeters, metersPerPixel)
	}
	spacing := int(math.Round(gridMeters / metersPerPixel))
	if spacing < minGridSpacing {
		return 0, fmt.Errorf("grid of %gm is %dpx, below the minimum of %dpx", gridMeters, spacing, minGridSpacing)
	}
	return spacing, nil
}

// DrawGrid draws grid lines every spacing pixels. When label is true the
// top row is annotated with the distance from the left edge in whole meters.
func DrawGrid(img *image.RGBA, spacing int, gridMeters float64, c color.RGBA, label bool) {
	bounds := img.Bounds()

	for x := bounds.Min.X + spacing; x < bounds.Max.X; x += spacing {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	for y := bounds.Min.Y + spacing; y < bounds.Max.Y; y += spacing {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	if !label || gridMeters < 1 {
		return
	}
	fg := color.RGBA{255, 255, 255, 255}
	for i, x := 1, bounds.Min.X+spacing; x < bounds.Max.X; i, x = i+1, x+spacing {
		meters := int(math.Round(float64(i) * gridMeters))
		drawLabel(img, x+2, bounds.Min.Y+2, strconv.Itoa(meters), fg, c)
	}
}

// EncodeGridOverlay renders the element boxes, adds a grid every gridMeters
// and returns the image as base64 PNG. gridColorHex falls back to gray when
// it cannot be parsed.
func EncodeGridOverlay(img image.Image, boxes []OverlayBox, gridMeters, metersPerPixel float64, gridColorHex string) (*GridOverlayResult, error) {
	spacing, err := GridSpacing(gridMeters, metersPerPixel)
	if err != nil {
		return nil, err
	}
	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		gridColor = color.RGBA{128, 128, 128, 255}
	}

	canvas := RenderOverlay(img, boxes)
	DrawGrid(canvas, spacing, gridMeters, gridColor, true)

	enc, err := encodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &GridOverlayResult{
		OverlayResult: OverlayResult{CropResult: *enc, Boxes: len(boxes)},
		GridMeters:    gridMeters,
		GridSpacing:   spacing,
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}

	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}
}
