package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// OCRThreshold is the cut-off used to binarize text before recognition.
const OCRThreshold = 128

// PreprocessForDetection boosts contrast by 30% and sharpens the grayscale
// page. The detector works on the raw page by default; this variant helps
// faint scans.
func PreprocessForDetection(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	contrasted := imaging.AdjustContrast(gray, 30)
	sharpened := imaging.Sharpen(contrasted, 1.0)
	return ToGray(sharpened)
}

// PreprocessForOCR prepares a page for Tesseract: grayscale, 3×3 median
// denoise, +50% contrast, then a hard threshold to black text on white.
func PreprocessForOCR(img image.Image) *image.Gray {
	gray := ToGray(img)
	denoised := effect.Median(gray, 1)
	contrasted := adjust.Contrast(denoised, 0.5)
	out := ToGray(contrasted)
	for i, v := range out.Pix {
		if v < OCRThreshold {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = 255
		}
	}
	return out
}

// Resize scales img by factor using Lanczos resampling. Factors <= 0 or
// equal to 1 return img unchanged.
func Resize(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
