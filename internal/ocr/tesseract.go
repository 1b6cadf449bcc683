package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used for German drawings.
const DefaultLanguage = "deu"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Width returns X2 - X1.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// TextRegion is one recognized word with its location.
type TextRegion struct {
	// Text is the recognized word, trimmed of surrounding whitespace.
	Text string `json:"text"`

	// Confidence is Tesseract's word confidence on a 0 to 100 scale.
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Extractor recognizes text in page images.
type Extractor interface {
	// ExtractText returns the recognized words. Empty words and words with
	// a confidence of zero or less are dropped.
	ExtractText(img image.Image) ([]TextRegion, error)

	// FullText returns all recognized text as one trimmed string.
	FullText(img image.Image) (string, error)
}

// TesseractExtractor runs Tesseract through gosseract. Each call opens its
// own client, so one extractor may be shared between goroutines.
type TesseractExtractor struct {
	// Language is the Tesseract language code, e.g. "deu" or "deu+eng".
	Language string

	// TessdataPrefix overrides the training data location when non-empty.
	TessdataPrefix string
}

// NewTesseractExtractor returns an extractor for the given language.
// An empty language selects DefaultLanguage.
func NewTesseractExtractor(language string) *TesseractExtractor {
	if language == "" {
		language = DefaultLanguage
	}
	return &TesseractExtractor{Language: language}
}

// ExtractText performs word-level OCR on img.
//
// The page is treated as a single uniform block of text (PSM 6), which
// keeps dimension strings like "3,50 m" together on plan drawings.
func (e *TesseractExtractor) ExtractText(img image.Image) ([]TextRegion, error) {
	client, err := e.client(img)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" || box.Confidence <= 0 {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       text,
			Confidence: box.Confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return regions, nil
}

// FullText returns the recognized text of img.
func (e *TesseractExtractor) FullText(img image.Image) (string, error) {
	client, err := e.client(img)
	if err != nil {
		return "", err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Version returns the linked Tesseract version.
func (e *TesseractExtractor) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

func (e *TesseractExtractor) client(img image.Image) (*gosseract.Client, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	if e.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(e.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return client, nil
}

// ExtractTextFromRegion runs ex on the rect portion of img.
//
// The returned bounds are adjusted to the original image coordinates. For
// example, if the region starts at (100, 50) and a word is detected at
// (10, 20) within the cropped region, the returned bounds start at (110, 70).
func ExtractTextFromRegion(ex Extractor, img image.Image, rect image.Rectangle) ([]TextRegion, error) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region %v does not intersect image bounds %v", rect, img.Bounds())
	}

	regions, err := ex.ExtractText(imaging.Crop(img, rect))
	if err != nil {
		return nil, err
	}

	dx, dy := rect.Min.X-img.Bounds().Min.X, rect.Min.Y-img.Bounds().Min.Y
	for i := range regions {
		regions[i].Bounds.X1 += dx
		regions[i].Bounds.Y1 += dy
		regions[i].Bounds.X2 += dx
		regions[i].Bounds.Y2 += dy
	}
	return regions, nil
}
