package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/config"
)

// createTestImage creates a white RGBA image of the given size.
func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// fillRect paints a solid black rectangle with top-left (x, y).
func fillRect(img *image.RGBA, x, y, w, h int) {
	draw.Draw(img, image.Rect(x, y, x+w, y+h), image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// drawFrame paints a hollow rectangle whose strokes are t pixels thick.
func drawFrame(img *image.RGBA, x, y, w, h, t int) {
	fillRect(img, x, y, w, t)
	fillRect(img, x, y+h-t, w, t)
	fillRect(img, x, y, t, h)
	fillRect(img, x+w-t, y, t, h)
}

func mustBinarize(t *testing.T, img image.Image) *Bitmap {
	t.Helper()
	bm, err := BinarizeImage(img, 128)
	if err != nil {
		t.Fatalf("BinarizeImage failed: %v", err)
	}
	return bm
}

func defaultDetection() config.DetectionConfig {
	return config.Default().Detection
}
