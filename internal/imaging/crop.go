package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped page region encoded for transport.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRect extracts rect from img after clamping it to the image bounds and
// growing it by margin pixels on every side.
func CropRect(img image.Image, rect image.Rectangle, margin int) (image.Image, error) {
	bounds := img.Bounds()
	r := rect.Inset(-margin).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	return imaging.Crop(img, r), nil
}

// Crop extracts rect, optionally grown by margin and scaled, and encodes it
// as base64 PNG. Used to show a single detected element.
func Crop(img image.Image, rect image.Rectangle, margin int, scale float64) (*CropResult, error) {
	cropped, err := CropRect(img, rect, margin)
	if err != nil {
		return nil, err
	}
	cropped = Resize(cropped, scale)
	return encodePNG(cropped)
}

func encodePNG(img image.Image) (*CropResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &CropResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
