package validation

import (
	"regexp"
	"strings"
	"time"
)

// isValidEmail matches /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BC Hydro account numbers are 12 digits.
var bcHydroRe = regexp.MustCompile(`^\d{12}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidBCHydroNumber(n string) bool {
	return bcHydroRe.MatchString(n)
}

func IsValidLatitude(v float64) bool {
	return v >= -90 && v <= 90
}

func IsValidLongitude(v float64) bool {
	return v >= -180 && v <= 180
}

// MissingFields returns the fields that are absent, nil, or blank strings in data.
func MissingFields(data map[string]any, fields ...string) []string {
	var missing []string
	for _, f := range fields {
		v, ok := data[f]
		if !ok || v == nil {
			missing = append(missing, f)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// ParseTime accepts a time.Time, an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
		if ts, err := time.Parse(time.DateOnly, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// NormalizeTimes parses the named fields in place with ParseTime and returns the
// fields that were present but could not be parsed.
func NormalizeTimes(data map[string]any, fields ...string) []string {
	var invalid []string
	for _, f := range fields {
		v, ok := data[f]
		if !ok || v == nil {
			continue
		}
		ts, ok := ParseTime(v)
		if !ok {
			invalid = append(invalid, f)
			continue
		}
		data[f] = ts.UTC()
	}
	return invalid
}
