package indicator

import (
	"math"
	"sort"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
)

// KeyFunc maps one classified case to its grouping key.
type KeyFunc func(models.ClassifiedCase) models.AggregateKey

func ByDoctor(classified models.ClassifiedCase) models.AggregateKey {
	return models.AggregateKey{Doctor: classified.DoctorName, Label: classified.DoctorName}
}

func ByMonth(classified models.ClassifiedCase) models.AggregateKey {
	return models.AggregateKey{Month: classified.Month, Label: classified.Month}
}

// ByBreakdown groups on the full hospital/department/doctor/indicator tuple.
// The hospital dimension is filled by the caller after organization linkage,
// so this closure takes the department-to-hospital lookup.
func ByBreakdown(hospitalOf map[string]string) KeyFunc {
	return func(classified models.ClassifiedCase) models.AggregateKey {
		return models.AggregateKey{
			Hospital:   hospitalOf[classified.DepartmentID],
			Department: classified.DepartmentName,
			Doctor:     classified.DoctorName,
			Indicator:  constvars.IndicatorName,
		}
	}
}

// Aggregate folds classified cases into per-group numerator/denominator
// counts. Pure and repeatable: the same input always yields the same rows,
// and several groupings can run over one case list independently.
func Aggregate(cases []models.ClassifiedCase, keyOf KeyFunc) []models.AggregateRow {
	groups := make(map[models.AggregateKey]*models.AggregateRow)
	order := make([]models.AggregateKey, 0)

	for _, classified := range cases {
		key := keyOf(classified)
		row, ok := groups[key]
		if !ok {
			row = &models.AggregateRow{Key: key}
			groups[key] = row
			order = append(order, key)
		}
		row.Denominator++
		if classified.IsNumerator {
			row.Numerator++
		}
	}

	rows := make([]models.AggregateRow, 0, len(order))
	for _, key := range order {
		row := groups[key]
		row.RatePercent = RatePercent(row.Numerator, row.Denominator)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return lessKey(rows[i].Key, rows[j].Key)
	})
	return rows
}

// RatePercent is numerator/denominator as a percentage rounded to two
// decimals; 0 when the denominator is 0.
func RatePercent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0.0
	}
	return math.Round(float64(numerator)/float64(denominator)*100*100) / 100
}

// DecorateStatus stamps each row normal or flagged against the configured
// risk threshold. Post-aggregation decoration only; the fold stays pure.
func DecorateStatus(rows []models.AggregateRow, thresholdPercent float64) {
	for i := range rows {
		if rows[i].RatePercent > thresholdPercent {
			rows[i].Status = constvars.AggregateStatusFlagged
		} else {
			rows[i].Status = constvars.AggregateStatusNormal
		}
	}
}

// Flagged returns the rows decorated as flagged.
func Flagged(rows []models.AggregateRow) []models.AggregateRow {
	flagged := make([]models.AggregateRow, 0)
	for _, row := range rows {
		if row.Status == constvars.AggregateStatusFlagged {
			flagged = append(flagged, row)
		}
	}
	return flagged
}

func lessKey(a, b models.AggregateKey) bool {
	if a.Hospital != b.Hospital {
		return a.Hospital < b.Hospital
	}
	if a.Department != b.Department {
		return a.Department < b.Department
	}
	if a.Doctor != b.Doctor {
		return a.Doctor < b.Doctor
	}
	if a.Indicator != b.Indicator {
		return a.Indicator < b.Indicator
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Label < b.Label
}
