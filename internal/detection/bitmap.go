package detection

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/imaging"
)

// ErrInvalidThreshold is returned by Binarize for thresholds outside [0,255].
var ErrInvalidThreshold = errors.New("threshold outside [0,255]")

// Bitmap is an immutable two-valued raster. Foreground pixels are the dark
// strokes of the drawing. Origin is the top-left corner.
type Bitmap struct {
	width  int
	height int
	pix    []bool
}

// NewBitmapFunc builds a bitmap by evaluating fg for every pixel.
func NewBitmapFunc(width, height int, fg func(x, y int) bool) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Bitmap{width: width, height: height, pix: make([]bool, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.pix[y*width+x] = fg(x, y)
		}
	}
	return b
}

// ParseBitmap reads an ASCII picture where '#' marks foreground. Short rows
// are padded with background. Handy for fixtures.
func ParseBitmap(rows ...string) *Bitmap {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return NewBitmapFunc(width, len(rows), func(x, y int) bool {
		return x < len(rows[y]) && rows[y][x] == '#'
	})
}

// Binarize thresholds a grayscale raster. A pixel is foreground iff its
// intensity is strictly below threshold.
func Binarize(gray *image.Gray, threshold int) (*Bitmap, error) {
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}
	bounds := gray.Bounds()
	return NewBitmapFunc(bounds.Dx(), bounds.Dy(), func(x, y int) bool {
		return int(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) < threshold
	}), nil
}

// BinarizeImage converts any image to grayscale and thresholds it.
func BinarizeImage(img image.Image, threshold int) (*Bitmap, error) {
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}
	return Binarize(imaging.ToGray(img), threshold)
}

// Width returns the number of columns.
func (b *Bitmap) Width() int { return b.width }

// Height returns the number of rows.
func (b *Bitmap) Height() int { return b.height }

// At reports whether (x, y) is foreground. Out-of-range coordinates are background.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.pix[y*b.width+x]
}

// Count returns the number of foreground pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.pix {
		if v {
			n++
		}
	}
	return n
}

// String renders the bitmap in the ParseBitmap format.
func (b *Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.pix[y*b.width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
