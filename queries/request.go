package queries

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Request is a fully built request: absolute URL plus the platform's header identity.
type Request struct {
	URL     string
	Headers map[string]string
}

// MaxLimit is the ceiling the platforms document for page sizes.
const MaxLimit = 100

// ClampLimit bounds limit to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ToMinorUnits converts a major-unit price to cents, rounded to the nearest
// integer. ok is false for NaN, infinities and values whose cents do not fit
// an int64.
func ToMinorUnits(price float64) (cents int64, ok bool) {
	c := math.Round(price * 100)
	if math.IsNaN(c) || c < math.MinInt64 || c >= math.MaxInt64 {
		return 0, false
	}
	return int64(c), true
}

var radiusNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// StripRadiusUnit drops a unit suffix ("10km", "25 mi") and returns the number,
// or "" when radius does not start with one.
func StripRadiusUnit(radius string) string {
	m := radiusNumber.FindStringSubmatch(radius)
	if m == nil {
		return ""
	}
	return m[1]
}

// DaysSince converts an hours window into whole days, rounded up, minimum 1.
func DaysSince(hours float64) int {
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		return 1
	}
	return days
}

func formatCents(v int64) string {
	return strconv.FormatInt(v, 10)
}

func locationSlug(location string) string {
	slug := strings.ToLower(strings.TrimSpace(location))
	slug = strings.Join(strings.Fields(slug), "")
	return url.PathEscape(slug)
}

func copyHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
