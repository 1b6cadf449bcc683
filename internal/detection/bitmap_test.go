package detection

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarize_ThresholdIsStrict(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 1))
	gray.SetGray(0, 0, color.Gray{Y: 0})
	gray.SetGray(1, 0, color.Gray{Y: 127})
	gray.SetGray(2, 0, color.Gray{Y: 128})
	gray.SetGray(3, 0, color.Gray{Y: 255})

	bm, err := Binarize(gray, 128)
	require.NoError(t, err)

	assert.True(t, bm.At(0, 0))
	assert.True(t, bm.At(1, 0))
	assert.False(t, bm.At(2, 0), "intensity equal to threshold is background")
	assert.False(t, bm.At(3, 0))
	assert.Equal(t, 2, bm.Count())
}

func TestBinarize_Extremes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))

	bm, err := Binarize(gray, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, bm.Count(), "threshold 0 has no foreground")

	bm, err = Binarize(gray, 255)
	require.NoError(t, err)
	assert.Equal(t, 9, bm.Count())
}

func TestBinarize_InvalidThreshold(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))

	for _, threshold := range []int{-1, 256, 1000} {
		_, err := Binarize(gray, threshold)
		assert.True(t, errors.Is(err, ErrInvalidThreshold), "threshold %d", threshold)
	}
}

func TestBinarize_OffsetBounds(t *testing.T) {
	gray := image.NewGray(image.Rect(10, 20, 13, 22))
	for i := range gray.Pix {
		gray.Pix[i] = 255
	}
	gray.SetGray(10, 20, color.Gray{Y: 0})
	gray.SetGray(12, 21, color.Gray{Y: 0})

	bm, err := Binarize(gray, 128)
	require.NoError(t, err)
	assert.Equal(t, 3, bm.Width())
	assert.Equal(t, 2, bm.Height())
	assert.True(t, bm.At(0, 0))
	assert.True(t, bm.At(2, 1))
	assert.False(t, bm.At(1, 0))
	assert.Equal(t, 2, bm.Count())
}

func TestBinarizeImage(t *testing.T) {
	img := createTestImage(20, 10)
	fillRect(img, 5, 2, 4, 3)

	bm := mustBinarize(t, img)
	assert.Equal(t, 20, bm.Width())
	assert.Equal(t, 10, bm.Height())
	assert.Equal(t, 12, bm.Count())
	assert.True(t, bm.At(5, 2))
	assert.False(t, bm.At(9, 2))
}

func TestBitmap_OutOfRange(t *testing.T) {
	bm := ParseBitmap("##", "##")
	assert.False(t, bm.At(-1, 0))
	assert.False(t, bm.At(0, -1))
	assert.False(t, bm.At(2, 0))
	assert.False(t, bm.At(0, 2))
}

func TestParseBitmap_String(t *testing.T) {
	bm := ParseBitmap(
		"#..",
		".#",
	)
	assert.Equal(t, 3, bm.Width())
	assert.Equal(t, 2, bm.Height())
	assert.Equal(t, "#..\n.#.\n", bm.String())
}
