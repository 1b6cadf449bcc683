package imaging

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D point
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceResult contains a measurement in pixels and in drawing meters.
type DistanceResult struct {
	DistancePixels float64 `json:"distance_pixels"`
	DeltaX         int     `json:"delta_x"`
	DeltaY         int     `json:"delta_y"`
	AngleDegrees   float64 `json:"angle_degrees"`
	DistanceMeters float64 `json:"distance_m"`
	DeltaXMeters   float64 `json:"delta_x_m"`
	DeltaYMeters   float64 `json:"delta_y_m"`
}

// MeasureDistance measures from p1 to p2 on img. metersPerPixel converts the
// pixel distances to meters. Both points must lie inside the image.
func MeasureDistance(img image.Image, p1, p2 Point, metersPerPixel float64) (*DistanceResult, error) {
	bounds := img.Bounds()
	for _, p := range []Point{p1, p2} {
		if !(image.Point{X: p.X, Y: p.Y}).In(bounds) {
			return nil, fmt.Errorf("point (%d,%d) outside image bounds %v", p.X, p.Y, bounds)
		}
	}

	deltaX := p2.X - p1.X
	deltaY := p2.Y - p1.Y
	distance := math.Hypot(float64(deltaX), float64(deltaY))

	// 0 = horizontal right, 90 = down
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels: math.Round(distance*100) / 100,
		DeltaX:         deltaX,
		DeltaY:         deltaY,
		AngleDegrees:   math.Round(angle*10) / 10,
		DistanceMeters: math.Round(distance*metersPerPixel*1000) / 1000,
		DeltaXMeters:   math.Round(math.Abs(float64(deltaX))*metersPerPixel*1000) / 1000,
		DeltaYMeters:   math.Round(math.Abs(float64(deltaY))*metersPerPixel*1000) / 1000,
	}, nil
}
