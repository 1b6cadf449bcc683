package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestPreprocessForOCR_IsBinary(t *testing.T) {
	img := createPatternImage(40, 40)
	img.SetRGBA(5, 5, color.RGBA{100, 100, 100, 255})

	out := PreprocessForOCR(img)
	if out.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	for i, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d has value %d, want 0 or 255", i, v)
		}
	}
}

func TestPreprocessForOCR_KeepsDarkStrokes(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	for y := 10; y < 20; y++ {
		for x := 5; x < 25; x++ {
			img.Set(x, y, color.Black)
		}
	}

	out := PreprocessForOCR(img)
	if out.GrayAt(15, 15).Y != 0 {
		t.Error("stroke center should stay black")
	}
	if out.GrayAt(2, 2).Y != 255 {
		t.Error("background should stay white")
	}
}

func TestPreprocessForOCR_RemovesSpeckle(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	img.Set(10, 10, color.Black)

	out := PreprocessForOCR(img)
	if out.GrayAt(10, 10).Y != 255 {
		t.Error("a single dark pixel should be removed by the median filter")
	}
}

func TestPreprocessForDetection(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	for y := 0; y < 30; y++ {
		img.Set(15, y, color.Black)
	}

	out := PreprocessForDetection(img)
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 30 {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if out.GrayAt(15, 15).Y > 50 {
		t.Errorf("line should stay dark, got %d", out.GrayAt(15, 15).Y)
	}
	if out.GrayAt(2, 2).Y < 200 {
		t.Errorf("background should stay light, got %d", out.GrayAt(2, 2).Y)
	}
}

func TestResize(t *testing.T) {
	img := createInMemoryImage(100, 50, color.White)

	tests := []struct {
		factor float64
		wantW  int
		wantH  int
	}{
		{2.0, 200, 100},
		{0.5, 50, 25},
		{1.0, 100, 50},
		{0, 100, 50},
		{-1, 100, 50},
		{0.001, 1, 1},
	}

	for _, tt := range tests {
		got := Resize(img, tt.factor)
		if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
			t.Errorf("Resize(%v): got %v, want %dx%d", tt.factor, got.Bounds(), tt.wantW, tt.wantH)
		}
	}
}
