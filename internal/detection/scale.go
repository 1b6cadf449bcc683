package detection

import (
	"math"
	"strconv"
	"strings"
)

// DefaultScale is the meters-per-pixel factor for a 1:100 drawing.
const DefaultScale = 0.01

// ParseScale converts a drawing scale "N:D" into the factor N/D.
//
// Malformed strings, non-finite numbers and non-positive N or D yield
// DefaultScale with ok == false. It never fails.
func ParseScale(s string) (factor float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return DefaultScale, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return DefaultScale, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return DefaultScale, false
	}
	if n <= 0 || d <= 0 || math.IsInf(n, 0) || math.IsInf(d, 0) || math.IsNaN(n) || math.IsNaN(d) {
		return DefaultScale, false
	}
	return n / d, true
}
