package analyzer

import (
	"errors"
	"image"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/imaging"
)

// OverlayBoxes converts elements into overlay rectangles colored by kind and
// numbered in order.
func OverlayBoxes(elements []detection.Element) []imaging.OverlayBox {
	boxes := make([]imaging.OverlayBox, len(elements))
	for i, e := range elements {
		boxes[i] = imaging.OverlayBox{
			Rect:   image.Rect(e.Box.X, e.Box.Y, e.Box.X+e.Box.Width, e.Box.Y+e.Box.Height),
			Class:  int(e.Kind),
			Number: i + 1,
		}
	}
	return boxes
}

// Overlay draws the page's elements on top of the page image.
func (p PageResult) Overlay() (*image.RGBA, error) {
	if p.Image == nil {
		return nil, errors.New("page image not available")
	}
	return imaging.RenderOverlay(p.Image, OverlayBoxes(p.Elements)), nil
}

// SaveOverlay writes the overlay of the given 1-based page to path.
func (r *AnalysisResult) SaveOverlay(page int, path string) error {
	for _, p := range r.Pages {
		if p.Number != page {
			continue
		}
		if p.Image == nil {
			return errors.New("page image not available")
		}
		return imaging.SaveOverlay(p.Image, OverlayBoxes(p.Elements), path)
	}
	return ErrNoPages
}
