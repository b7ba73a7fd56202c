package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFhirInstant(t *testing.T) {
	t.Run("Explicit offset form parses", func(t *testing.T) {
		parsed, err := ParseFhirInstant("2025-03-10T14:30:00+00:00")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("Z suffix form parses", func(t *testing.T) {
		parsed, err := ParseFhirInstant("2025-03-10T14:30:00Z")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("Offset-less form parses", func(t *testing.T) {
		parsed, err := ParseFhirInstant("2025-03-10T14:30:00")
		assert.NoError(t, err)
		assert.Equal(t, 14, parsed.Hour())
	})

	t.Run("Date-only form parses", func(t *testing.T) {
		parsed, err := ParseFhirInstant("2025-03-10")
		assert.NoError(t, err)
		assert.Equal(t, time.March, parsed.Month())
	})

	t.Run("Malformed value returns error", func(t *testing.T) {
		_, err := ParseFhirInstant("10/03/2025 14:30")
		assert.Error(t, err)
	})

	t.Run("Empty value returns error", func(t *testing.T) {
		_, err := ParseFhirInstant("")
		assert.Error(t, err)
	})
}

func TestFormatFhirInstant(t *testing.T) {
	formatted := FormatFhirInstant(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-10T14:30:00+00:00", formatted)

	t.Run("Round trips through ParseFhirInstant", func(t *testing.T) {
		parsed, err := ParseFhirInstant(formatted)
		assert.NoError(t, err)
		assert.True(t, parsed.Equal(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)))
	})
}

func TestMonthBucket(t *testing.T) {
	assert.Equal(t, "2025-03", MonthBucket(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-12", MonthBucket(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHoursBetween(t *testing.T) {
	from := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 48.0, HoursBetween(from, from.Add(48*time.Hour)))
	assert.Equal(t, 0.5, HoursBetween(from, from.Add(30*time.Minute)))
	assert.Equal(t, -1.0, HoursBetween(from, from.Add(-time.Hour)))
}
