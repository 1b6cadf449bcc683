package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// OverlayBox is one rectangle to outline on the overlay. Class selects the
// color; Number, when positive, is printed at the top-left corner.
type OverlayBox struct {
	Rect   image.Rectangle
	Class  int
	Number int
}

// OverlayResult contains the annotated page encoded as base64 PNG.
type OverlayResult struct {
	CropResult
	Boxes int `json:"boxes"`
}

// overlayStroke is the outline width in pixels.
const overlayStroke = 2

// ClassColor returns a saturated color for a class index. Classes are spread
// around the hue circle in 60° steps so six classes stay distinct.
func ClassColor(class int) color.RGBA {
	hue := (class * 60) % 360
	if hue < 0 {
		hue += 360
	}
	c := colorful.Hsv(float64(hue), 0.9, 0.85)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RenderOverlay draws the outlines of boxes on a copy of img.
func RenderOverlay(img image.Image, boxes []OverlayBox) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	for _, b := range boxes {
		c := ClassColor(b.Class)
		drawOutline(result, b.Rect, c)
		if b.Number > 0 {
			drawLabel(result, b.Rect.Min.X+overlayStroke+1, b.Rect.Min.Y+overlayStroke+1, strconv.Itoa(b.Number), labelColor, c)
		}
	}
	return result
}

// EncodeOverlay renders boxes and returns the result as base64 PNG.
func EncodeOverlay(img image.Image, boxes []OverlayBox) (*OverlayResult, error) {
	enc, err := encodePNG(RenderOverlay(img, boxes))
	if err != nil {
		return nil, err
	}
	return &OverlayResult{CropResult: *enc, Boxes: len(boxes)}, nil
}

// SaveOverlay renders boxes and writes the image to path. The format follows
// the file extension.
func SaveOverlay(img image.Image, boxes []OverlayBox, path string) error {
	if err := imaging.Save(RenderOverlay(img, boxes), path); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

func drawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < overlayStroke; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, r.Min.Y+t, c)
			img.SetRGBA(x, r.Max.Y-1-t, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetRGBA(r.Min.X+t, y, c)
			img.SetRGBA(r.Max.X-1-t, y, c)
		}
	}
}

// drawLabel draws digits with a 3x5 pixel font on a filled background.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if (image.Point{X: px, Y: py}).In(bounds) {
				img.SetRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if (image.Point{X: px, Y: py}).In(bounds) {
					img.SetRGBA(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
