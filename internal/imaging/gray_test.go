package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestToGray_KnownColors(t *testing.T) {
	tests := []struct {
		name  string
		c     color.Color
		want  uint8
		delta int
	}{
		{"black", color.Black, 0, 0},
		{"white", color.White, 255, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76, 1},
		{"green", color.RGBA{0, 255, 0, 255}, 150, 1},
		{"blue", color.RGBA{0, 0, 255, 255}, 29, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGray(createInMemoryImage(4, 4, tt.c))
			got := int(gray.GrayAt(2, 2).Y)
			if got < int(tt.want)-tt.delta || got > int(tt.want)+tt.delta {
				t.Errorf("got %d, want %d±%d", got, tt.want, tt.delta)
			}
		})
	}
}

func TestToGray_NormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 10))
	gray := ToGray(src)
	if gray.Bounds() != image.Rect(0, 0, 10, 5) {
		t.Errorf("bounds: got %v, want (0,0)-(10,5)", gray.Bounds())
	}
}

func TestToGray_PassThrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	if ToGray(src) != src {
		t.Error("a zero-origin *image.Gray should be returned as is")
	}
}
