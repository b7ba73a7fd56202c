package indicator

import (
	"testing"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
)

func classifiedCase(doctor, month string, isNumerator bool) models.ClassifiedCase {
	return models.ClassifiedCase{
		DoctorName:  doctor,
		Month:       month,
		IsNumerator: isNumerator,
	}
}

func TestAggregateByDoctor(t *testing.T) {
	cases := []models.ClassifiedCase{
		classifiedCase("Dr. Liu (TP_GEN)", "2025-01", true),
		classifiedCase("Dr. Liu (TP_GEN)", "2025-01", false),
		classifiedCase("Dr. Wu (NAT_MED)", "2025-02", false),
	}

	rows := Aggregate(cases, ByDoctor)
	assert.Len(t, rows, 2)

	assert.Equal(t, "Dr. Liu (TP_GEN)", rows[0].Key.Doctor)
	assert.Equal(t, 1, rows[0].Numerator)
	assert.Equal(t, 2, rows[0].Denominator)
	assert.Equal(t, 50.0, rows[0].RatePercent)

	assert.Equal(t, "Dr. Wu (NAT_MED)", rows[1].Key.Doctor)
	assert.Equal(t, 0, rows[1].Numerator)
	assert.Equal(t, 1, rows[1].Denominator)
	assert.Equal(t, 0.0, rows[1].RatePercent)
}

func TestAggregateIsRepeatable(t *testing.T) {
	cases := []models.ClassifiedCase{
		classifiedCase("Dr. Liu (TP_GEN)", "2025-01", true),
		classifiedCase("Dr. Wu (NAT_MED)", "2025-01", false),
		classifiedCase("Dr. Liu (TP_GEN)", "2025-02", false),
	}

	byDoctor := Aggregate(cases, ByDoctor)
	byMonth := Aggregate(cases, ByMonth)
	byDoctorAgain := Aggregate(cases, ByDoctor)

	assert.Equal(t, byDoctor, byDoctorAgain, "the fold must not mutate its input")

	// Both groupings partition the same cases: totals must agree.
	doctorDenominator, monthDenominator := 0, 0
	for _, row := range byDoctor {
		doctorDenominator += row.Denominator
	}
	for _, row := range byMonth {
		monthDenominator += row.Denominator
	}
	assert.Equal(t, len(cases), doctorDenominator)
	assert.Equal(t, len(cases), monthDenominator)
}

func TestAggregateByBreakdown(t *testing.T) {
	cases := []models.ClassifiedCase{
		{DoctorName: "Dr. Liu (TP_GEN)", DepartmentID: "dept-1", DepartmentName: "Taipei General Hospital General Surgery", IsNumerator: true},
		{DoctorName: "Dr. Liu (TP_GEN)", DepartmentID: "dept-1", DepartmentName: "Taipei General Hospital General Surgery", IsNumerator: false},
	}
	hospitalOf := map[string]string{"dept-1": "Taipei General Hospital"}

	rows := Aggregate(cases, ByBreakdown(hospitalOf))
	assert.Len(t, rows, 1)
	assert.Equal(t, "Taipei General Hospital", rows[0].Key.Hospital)
	assert.Equal(t, constvars.IndicatorName, rows[0].Key.Indicator)
	assert.Equal(t, 2, rows[0].Denominator)
}

func TestRatePercent(t *testing.T) {
	t.Run("Zero denominator yields zero, never division", func(t *testing.T) {
		assert.Equal(t, 0.0, RatePercent(0, 0))
		assert.Equal(t, 0.0, RatePercent(5, 0))
	})

	t.Run("Rounds to two decimals", func(t *testing.T) {
		assert.Equal(t, 33.33, RatePercent(1, 3))
		assert.Equal(t, 66.67, RatePercent(2, 3))
		assert.Equal(t, 14.29, RatePercent(1, 7))
		assert.Equal(t, 100.0, RatePercent(3, 3))
	})
}

func TestDecorateStatus(t *testing.T) {
	rows := []models.AggregateRow{
		{RatePercent: 1.99},
		{RatePercent: 2.0},
		{RatePercent: 2.01},
	}

	DecorateStatus(rows, 2.0)

	assert.Equal(t, constvars.AggregateStatusNormal, rows[0].Status)
	assert.Equal(t, constvars.AggregateStatusNormal, rows[1].Status, "the threshold itself is not flagged")
	assert.Equal(t, constvars.AggregateStatusFlagged, rows[2].Status)

	flagged := Flagged(rows)
	assert.Len(t, flagged, 1)
	assert.Equal(t, 2.01, flagged[0].RatePercent)
}

func TestAggregateRowOrderingIsStable(t *testing.T) {
	cases := []models.ClassifiedCase{
		classifiedCase("Dr. Wu (NAT_MED)", "2025-02", false),
		classifiedCase("Dr. Liu (TP_GEN)", "2025-01", false),
		classifiedCase("Dr. Chao (CITY_UN)", "2025-03", false),
	}

	first := Aggregate(cases, ByDoctor)
	second := Aggregate(cases, ByDoctor)

	assert.Equal(t, first, second)
	assert.Equal(t, "Dr. Chao (CITY_UN)", first[0].Key.Doctor, "rows come out sorted by key")
}
