package detection

import (
	"encoding/json"
	"fmt"
)

// BoundingBox is an axis-aligned pixel rectangle with inclusive origin.
// Width and Height are at least 1 for every box produced by this package.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Center returns the truncated midpoint (x + w/2, y + h/2).
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Area returns Width × Height in square pixels.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Kind is the building element category.
type Kind int

const (
	KindWall Kind = iota
	KindWindow
	KindDoor
	KindColumn
	KindBeam
	KindSlab
)

// Kinds lists every kind in quantity order.
var Kinds = []Kind{KindWall, KindWindow, KindDoor, KindColumn, KindBeam, KindSlab}

var kindNames = [...]string{"wall", "window", "door", "column", "beam", "slab"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a name such as "wall" back to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", s)
}

// Subtype refines a Kind. The empty subtype means none.
type Subtype string

const (
	SubtypeNone     Subtype = ""
	SubtypeExterior Subtype = "exterior"
	SubtypeInterior Subtype = "interior"
	SubtypeStandard Subtype = "standard"
	SubtypeFloor    Subtype = "floor"
)

// Orientation of a wall run.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Measure is an optional real-world measurement in meters (or m², m³).
type Measure struct {
	Value float64
	Valid bool
}

// Known wraps a present measurement.
func Known(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Or returns the value, or def if the measurement is absent.
func (m Measure) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

// MarshalJSON encodes absent measurements as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Dimensions is the per-kind measurement record attached to an element.
// The concrete types are WallDims, OpeningDims, ColumnDims, BeamDims and SlabDims.
type Dimensions interface {
	// Values returns the present measurements keyed by name.
	Values() map[string]float64
	isDimensions()
}

// WallDims describes a wall run.
type WallDims struct {
	LengthPx    int
	ThicknessPx int
	Length      Measure
	Thickness   Measure
}

// OpeningDims describes a window or door gap.
type OpeningDims struct {
	WidthPx  int
	HeightPx int
	Width    Measure
	Height   Measure
}

// ColumnDims describes a column cross-section.
type ColumnDims struct {
	WidthPx      int
	DepthPx      int
	Width        Measure
	Depth        Measure
	CrossSection Measure
}

// BeamDims describes a beam span.
type BeamDims struct {
	Length Measure
}

// SlabDims describes a slab area.
type SlabDims struct {
	Area Measure
}

func (WallDims) isDimensions()    {}
func (OpeningDims) isDimensions() {}
func (ColumnDims) isDimensions()  {}
func (BeamDims) isDimensions()    {}
func (SlabDims) isDimensions()    {}

func (d WallDims) Values() map[string]float64 {
	v := map[string]float64{
		"length_px":    float64(d.LengthPx),
		"thickness_px": float64(d.ThicknessPx),
	}
	putMeasure(v, "length_m", d.Length)
	putMeasure(v, "thickness_m", d.Thickness)
	return v
}

func (d OpeningDims) Values() map[string]float64 {
	v := map[string]float64{
		"width_px":  float64(d.WidthPx),
		"height_px": float64(d.HeightPx),
	}
	putMeasure(v, "width_m", d.Width)
	putMeasure(v, "height_m", d.Height)
	return v
}

func (d ColumnDims) Values() map[string]float64 {
	v := map[string]float64{
		"width_px": float64(d.WidthPx),
		"depth_px": float64(d.DepthPx),
	}
	putMeasure(v, "width_m", d.Width)
	putMeasure(v, "depth_m", d.Depth)
	putMeasure(v, "cross_section_m2", d.CrossSection)
	return v
}

func (d BeamDims) Values() map[string]float64 {
	v := map[string]float64{}
	putMeasure(v, "length_m", d.Length)
	return v
}

func (d SlabDims) Values() map[string]float64 {
	v := map[string]float64{}
	putMeasure(v, "area_m2", d.Area)
	return v
}

func putMeasure(v map[string]float64, key string, m Measure) {
	if m.Valid {
		v[key] = m.Value
	}
}

// Properties are descriptive attributes of an element.
type Properties struct {
	// Label is the German trade name, e.g. "Außenwand" or "Standard-Fenster".
	Label string `json:"label,omitempty"`

	// Orientation is set for walls only.
	Orientation Orientation `json:"orientation,omitempty"`

	// FillRatio is the share of foreground pixels in the bounding box (columns).
	FillRatio Measure `json:"fill_ratio"`
}

// MarshalJSON omits the fill ratio when it was not measured.
func (p Properties) MarshalJSON() ([]byte, error) {
	type props Properties
	if p.FillRatio.Valid {
		return json.Marshal(props(p))
	}
	return json.Marshal(struct {
		Label       string      `json:"label,omitempty"`
		Orientation Orientation `json:"orientation,omitempty"`
	}{p.Label, p.Orientation})
}

// Element is one classified building element. Elements are values and are
// never modified after a classifier returns them.
type Element struct {
	Kind       Kind
	Subtype    Subtype
	Box        BoundingBox
	Confidence float64
	Dims       Dimensions
	Props      Properties
}

// MarshalJSON renders the element with its dimensions flattened into a map.
func (e Element) MarshalJSON() ([]byte, error) {
	var dims map[string]float64
	if e.Dims != nil {
		dims = e.Dims.Values()
	}
	return json.Marshal(struct {
		Type        Kind               `json:"type"`
		Subtype     Subtype            `json:"subtype,omitempty"`
		BoundingBox BoundingBox        `json:"bbox"`
		Confidence  float64            `json:"confidence"`
		Dimensions  map[string]float64 `json:"dimensions"`
		Properties  Properties         `json:"properties"`
	}{
		Type:        e.Kind,
		Subtype:     e.Subtype,
		BoundingBox: e.Box,
		Confidence:  e.Confidence,
		Dimensions:  dims,
		Properties:  e.Props,
	})
}
