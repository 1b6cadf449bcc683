package ocr

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Dimension units as written on the drawing.
const (
	UnitMeter      = "m"
	UnitCentimeter = "cm"
	UnitMillimeter = "mm"
)

// Dimension is a length annotation read from the drawing.
type Dimension struct {
	// Meters is the value converted to meters.
	Meters float64 `json:"value"`

	// Unit is the unit the annotation was written in.
	Unit string `json:"unit"`

	// Text is the trimmed source text.
	Text string `json:"text"`

	// Region is the word the annotation was read from, if any.
	Region *TextRegion `json:"region,omitempty"`
}

var (
	meterPattern      = regexp.MustCompile(`(?i)(\d+[,.]?\d*)\s*m`)
	centimeterPattern = regexp.MustCompile(`(?i)(\d+[,.]?\d*)\s*cm`)
	millimeterPattern = regexp.MustCompile(`(?i)(\d+[,.]?\d*)\s*mm`)
)

// ParseDimension reads a length annotation such as "3,50 m", "350 cm" or
// "3500 mm". Meters are tried first, then centimeters, then millimeters.
// A comma is accepted as decimal separator.
func ParseDimension(text string) (Dimension, bool) {
	text = strings.TrimSpace(text)

	if num, ok := findMeters(text); ok {
		if v, err := parseNumber(num); err == nil {
			return Dimension{Meters: v, Unit: UnitMeter, Text: text}, true
		}
	}
	if m := centimeterPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseNumber(m[1]); err == nil {
			return Dimension{Meters: v / 100, Unit: UnitCentimeter, Text: text}, true
		}
	}
	if m := millimeterPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseNumber(m[1]); err == nil {
			return Dimension{Meters: v / 1000, Unit: UnitMillimeter, Text: text}, true
		}
	}
	return Dimension{}, false
}

// findMeters returns the number of the first "<n> m" match that is not
// followed by "m", "²" or "³".
func findMeters(text string) (string, bool) {
	for _, loc := range meterPattern.FindAllStringSubmatchIndex(text, -1) {
		rest := text[loc[1]:]
		if rest != "" {
			r := []rune(rest)[0]
			if r == 'm' || r == 'M' || r == '²' || r == '³' {
				continue
			}
		}
		return text[loc[2]:loc[3]], true
	}
	return "", false
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// ExtractDimensions returns the regions that parse as dimensions, in order.
func ExtractDimensions(regions []TextRegion) []Dimension {
	dims := make([]Dimension, 0)
	for i := range regions {
		d, ok := ParseDimension(regions[i].Text)
		if !ok {
			continue
		}
		r := regions[i]
		d.Region = &r
		dims = append(dims, d)
	}
	return dims
}

// ExtractLabels keeps mostly alphabetic words of at least two characters.
func ExtractLabels(regions []TextRegion) []TextRegion {
	labels := make([]TextRegion, 0)
	for _, r := range regions {
		runes := []rune(r.Text)
		if len(runes) < 2 {
			continue
		}
		letters := 0
		for _, c := range runes {
			if unicode.IsLetter(c) {
				letters++
			}
		}
		if float64(letters)/float64(len(runes)) > 0.5 {
			labels = append(labels, r)
		}
	}
	return labels
}

// RoomKeywords are the German room names recognized by FindRoomLabels.
var RoomKeywords = []string{
	"wohnzimmer", "schlafzimmer", "kinderzimmer", "gästezimmer",
	"bad", "badezimmer", "wc", "gäste-wc", "toilette",
	"küche", "kochen", "essen", "esszimmer",
	"flur", "diele", "eingang", "windfang",
	"büro", "arbeitszimmer", "homeoffice",
	"lager", "abstellraum", "hauswirtschaft", "hwr",
	"technik", "heizung", "keller",
	"garage", "carport", "stellplatz",
	"balkon", "terrasse", "loggia",
	"zimmer", "raum",
}

// FindRoomLabels keeps words containing a room keyword, case-insensitively.
func FindRoomLabels(regions []TextRegion) []TextRegion {
	rooms := make([]TextRegion, 0)
	for _, r := range regions {
		lower := strings.ToLower(r.Text)
		for _, kw := range RoomKeywords {
			if strings.Contains(lower, kw) {
				rooms = append(rooms, r)
				break
			}
		}
	}
	return rooms
}
