package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts img to 8-bit luminance using ITU-R BT.601 weights. The
// result always has its origin at (0, 0).
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	nrgba := imaging.Grayscale(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+bounds.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}
