package analyzer

import (
	"image"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/detection"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/ocr"
	"github.com/mahdawali/bauzeichnung-aufmass-tool/internal/quantity"
)

// PageResult holds what was found on one page.
type PageResult struct {
	// Number is the 1-based page number in the source document.
	Number int `json:"number"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Elements   []detection.Element `json:"elements"`
	Dimensions []ocr.Dimension     `json:"dimensions"`
	Labels     []ocr.TextRegion    `json:"labels"`
	Rooms      []ocr.TextRegion    `json:"rooms"`

	// OCRError is set when text extraction failed for this page.
	OCRError string `json:"ocr_error,omitempty"`

	// Image is the rasterized page the elements were detected on.
	Image image.Image `json:"-"`
}

// AnalysisResult is the outcome of one analysis run. Elements, dimensions
// and labels are merged across pages in page order.
type AnalysisResult struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Scale       string    `json:"scale"`
	ScaleFactor float64   `json:"scale_factor"`
	CreatedAt   time.Time `json:"created_at"`

	Pages      []PageResult        `json:"pages"`
	Elements   []detection.Element `json:"elements"`
	Dimensions []ocr.Dimension     `json:"dimensions"`
	Labels     []ocr.TextRegion    `json:"labels"`
	Rooms      []ocr.TextRegion    `json:"rooms"`

	Quantities *quantity.Result `json:"quantities"`
}

// Walls returns every wall.
func (r *AnalysisResult) Walls() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindWall)
}

// ExteriorWalls returns walls classified as exterior.
func (r *AnalysisResult) ExteriorWalls() []detection.Element {
	return detection.FilterBySubtype(r.Walls(), detection.SubtypeExterior)
}

// InteriorWalls returns walls classified as interior.
func (r *AnalysisResult) InteriorWalls() []detection.Element {
	return detection.FilterBySubtype(r.Walls(), detection.SubtypeInterior)
}

func (r *AnalysisResult) Windows() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindWindow)
}

func (r *AnalysisResult) Doors() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindDoor)
}

func (r *AnalysisResult) Columns() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindColumn)
}

func (r *AnalysisResult) Beams() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindBeam)
}

func (r *AnalysisResult) Slabs() []detection.Element {
	return detection.FilterByType(r.Elements, detection.KindSlab)
}

// ElementCounts keys used by Summary.
const (
	CountWalls         = "walls"
	CountExteriorWalls = "exterior_walls"
	CountInteriorWalls = "interior_walls"
	CountWindows       = "windows"
	CountDoors         = "doors"
	CountColumns       = "columns"
	CountBeams         = "beams"
	CountSlabs         = "slabs"
)

// CountOrder lists the ElementCounts keys in display order.
var CountOrder = []string{
	CountWalls, CountExteriorWalls, CountInteriorWalls,
	CountWindows, CountDoors, CountColumns, CountBeams, CountSlabs,
}

// Summary is a compact overview of an analysis run.
type Summary struct {
	ID              string           `json:"id"`
	Source          string           `json:"source_file"`
	Scale           string           `json:"scale"`
	Pages           int              `json:"pages"`
	ElementCounts   map[string]int   `json:"element_counts"`
	TotalElements   int              `json:"total_elements"`
	DimensionsFound int              `json:"dimensions_found"`
	LabelsFound     int              `json:"labels_found"`
	RoomsFound      int              `json:"rooms_found"`
	MeanConfidence  float64          `json:"mean_confidence"`
	OCRFailures     int              `json:"ocr_failures"`
	QuantitySummary quantity.Summary `json:"quantity_summary"`
}

// Summary computes the overview. MeanConfidence is 0 when nothing was found.
func (r *AnalysisResult) Summary() Summary {
	s := Summary{
		ID:     r.ID,
		Source: r.Source,
		Scale:  r.Scale,
		Pages:  len(r.Pages),
		ElementCounts: map[string]int{
			CountWalls:         len(r.Walls()),
			CountExteriorWalls: len(r.ExteriorWalls()),
			CountInteriorWalls: len(r.InteriorWalls()),
			CountWindows:       len(r.Windows()),
			CountDoors:         len(r.Doors()),
			CountColumns:       len(r.Columns()),
			CountBeams:         len(r.Beams()),
			CountSlabs:         len(r.Slabs()),
		},
		TotalElements:   len(r.Elements),
		DimensionsFound: len(r.Dimensions),
		LabelsFound:     len(r.Labels),
		RoomsFound:      len(r.Rooms),
		QuantitySummary: quantity.Summary{},
	}

	if len(r.Elements) > 0 {
		conf := make([]float64, len(r.Elements))
		for i, e := range r.Elements {
			conf[i] = e.Confidence
		}
		s.MeanConfidence = stat.Mean(conf, nil)
	}
	for _, p := range r.Pages {
		if p.OCRError != "" {
			s.OCRFailures++
		}
	}
	if r.Quantities != nil {
		s.QuantitySummary = r.Quantities.Summary()
	}
	return s
}
