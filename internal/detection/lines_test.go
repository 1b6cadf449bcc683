package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLines_HorizontalBar(t *testing.T) {
	img := createTestImage(200, 60)
	fillRect(img, 20, 10, 120, 12)
	bm := mustBinarize(t, img)

	runs := ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 5})
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, Horizontal, r.Orientation)
	assert.Equal(t, 20, r.X)
	assert.Equal(t, 10, r.Y)
	assert.Equal(t, 120, r.Length)
	assert.Equal(t, 12, r.Thickness)
	assert.Equal(t, BoundingBox{X: 20, Y: 10, Width: 120, Height: 12}, r.Box())
}

func TestScanLines_VerticalBar(t *testing.T) {
	img := createTestImage(60, 200)
	fillRect(img, 15, 30, 8, 100)
	bm := mustBinarize(t, img)

	runs := ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 5})
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, Vertical, r.Orientation)
	assert.Equal(t, 15, r.X)
	assert.Equal(t, 30, r.Y)
	assert.Equal(t, 100, r.Length)
	assert.Equal(t, 8, r.Thickness)
	assert.Equal(t, BoundingBox{X: 15, Y: 30, Width: 8, Height: 100}, r.Box())
}

func TestScanLines_ThinLineDiscarded(t *testing.T) {
	img := createTestImage(200, 40)
	fillRect(img, 10, 10, 150, 2)
	bm := mustBinarize(t, img)

	assert.Empty(t, ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 5}))
	assert.Len(t, ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 2}), 1)
}

func TestScanLines_ShortRunDiscarded(t *testing.T) {
	img := createTestImage(100, 40)
	fillRect(img, 10, 10, 49, 10)
	bm := mustBinarize(t, img)

	assert.Empty(t, ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 5}))
}

func TestScanLines_BlockReportedByBothPasses(t *testing.T) {
	img := createTestImage(120, 120)
	fillRect(img, 10, 10, 60, 60)
	bm := mustBinarize(t, img)

	runs := ScanLines(bm, LineOptions{MinLength: 50, MinThickness: 5})
	require.Len(t, runs, 2)
	assert.Equal(t, Horizontal, runs[0].Orientation)
	assert.Equal(t, Vertical, runs[1].Orientation)
	assert.Equal(t, 60, runs[0].Thickness)
	assert.Equal(t, 60, runs[1].Thickness)
}

func TestScanLines_Frame(t *testing.T) {
	img := createTestImage(200, 120)
	drawFrame(img, 20, 20, 100, 60, 6)
	bm := mustBinarize(t, img)

	h := ScanHorizontal(bm, LineOptions{MinLength: 50, MinThickness: 5})
	require.Len(t, h, 2)
	assert.Equal(t, Run{Orientation: Horizontal, X: 20, Y: 20, Length: 100, Thickness: 6}, h[0])
	assert.Equal(t, Run{Orientation: Horizontal, X: 20, Y: 74, Length: 100, Thickness: 6}, h[1])

	v := ScanVertical(bm, LineOptions{MinLength: 50, MinThickness: 5})
	require.Len(t, v, 2)
	assert.Equal(t, Run{Orientation: Vertical, X: 20, Y: 20, Length: 60, Thickness: 6}, v[0])
	assert.Equal(t, Run{Orientation: Vertical, X: 114, Y: 20, Length: 60, Thickness: 6}, v[1])
}

func TestEstimateLineThickness_Median(t *testing.T) {
	// ten samples along a 10-pixel run, thicknesses 1..10
	bm := NewBitmapFunc(10, 12, func(x, y int) bool { return y <= x })
	at := func(u, v int) bool { return bm.At(u, v) }

	got := estimateLineThickness(at, 0, 0, 10, 10, 12)
	assert.Equal(t, 5, got, "median of 1..10 is 5.5, truncated")
}

func TestEstimateLineThickness_OddSamples(t *testing.T) {
	bm := ParseBitmap(
		"###",
		"##.",
		"#..",
	)
	at := func(u, v int) bool { return bm.At(u, v) }

	assert.Equal(t, 2, estimateLineThickness(at, 0, 0, 3, 3, 3))
}

func TestEstimateLineThickness_NoSamples(t *testing.T) {
	at := func(u, v int) bool { return false }
	assert.Equal(t, 0, estimateLineThickness(at, 0, 0, 0, 10, 10))
}
