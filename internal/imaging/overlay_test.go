package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestClassColor_Distinct(t *testing.T) {
	seen := make(map[color.RGBA]int)
	for class := 0; class < 6; class++ {
		c := ClassColor(class)
		if prev, ok := seen[c]; ok {
			t.Errorf("class %d has the same color as class %d", class, prev)
		}
		seen[c] = class
	}
	if ClassColor(6) != ClassColor(0) {
		t.Error("colors should repeat after six classes")
	}
	if ClassColor(-1) == (color.RGBA{}) {
		t.Error("negative class should still get a color")
	}
}

func TestRenderOverlay(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	boxes := []OverlayBox{
		{Rect: image.Rect(10, 10, 60, 40), Class: 0, Number: 1},
		{Rect: image.Rect(70, 70, 90, 90), Class: 2},
	}

	out := RenderOverlay(img, boxes)

	if out.RGBAAt(30, 10) != ClassColor(0) {
		t.Errorf("top edge of first box: got %v", out.RGBAAt(30, 10))
	}
	if out.RGBAAt(89, 80) != ClassColor(2) {
		t.Errorf("right edge of second box: got %v", out.RGBAAt(89, 80))
	}
	if out.RGBAAt(35, 30) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("box interior should be untouched")
	}
	if img.RGBAAt(30, 10) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("source image must not be modified")
	}
}

func TestRenderOverlay_ClipsBoxes(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	out := RenderOverlay(img, []OverlayBox{{Rect: image.Rect(-10, -10, 100, 100), Class: 1}})
	if out.RGBAAt(0, 0) != ClassColor(1) {
		t.Error("clipped box should be outlined at the image border")
	}
}

func TestEncodeOverlay(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	res, err := EncodeOverlay(img, []OverlayBox{{Rect: image.Rect(5, 5, 20, 20)}})
	if err != nil {
		t.Fatalf("EncodeOverlay failed: %v", err)
	}
	if res.Boxes != 1 || res.Width != 50 || res.ImageBase64 == "" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSaveOverlay(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	path := filepath.Join(t.TempDir(), "overlay.png")

	if err := SaveOverlay(img, []OverlayBox{{Rect: image.Rect(5, 5, 20, 20), Number: 12}}, path); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading overlay failed: %v", err)
	}
	if loaded.Bounds().Dx() != 50 {
		t.Errorf("width: got %d", loaded.Bounds().Dx())
	}

	if err := SaveOverlay(img, nil, filepath.Join(t.TempDir(), "overlay.xyz")); err == nil {
		t.Error("expected error for unknown extension")
	}
}
