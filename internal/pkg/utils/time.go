package utils

import (
	"strings"
	"time"
)

var fhirInstantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseFhirInstant parses the instant formats observed from the store. A Z
// suffix is normalized to an explicit offset first, matching how the source
// data mixes both forms.
func ParseFhirInstant(value string) (time.Time, error) {
	normalized := strings.Replace(strings.TrimSpace(value), "Z", "+00:00", 1)
	var lastErr error
	for _, layout := range fhirInstantLayouts {
		parsed, err := time.Parse(layout, normalized)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func FormatFhirInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05+00:00")
}

// MonthBucket renders the year-month grouping key used by the trend series.
func MonthBucket(t time.Time) string {
	return t.Format("2006-01")
}

// HoursBetween returns the signed fractional hours from 'from' to 'to'.
func HoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}
