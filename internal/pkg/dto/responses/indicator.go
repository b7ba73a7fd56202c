package responses

import "kpim-service/internal/app/models"

// IndicatorTable is the per-provider dashboard payload: ordered rows plus
// the data-quality counters for the run that produced them.
type IndicatorTable struct {
	Rows  []models.AggregateRow `json:"rows"`
	Stats models.LinkStats      `json:"stats"`
}

// TrendSeries is the by-month payload consumed by the trend chart.
type TrendSeries struct {
	Points []models.AggregateRow `json:"points"`
	Stats  models.LinkStats      `json:"stats"`
}

type FlaggedCases struct {
	Cases []models.ClassifiedCase `json:"cases"`
	Stats models.LinkStats        `json:"stats"`
}

type GenerationSummary struct {
	Requested int `json:"requested"`
	Persisted int `json:"persisted"`
	Failed    int `json:"failed"`
	Adverse   int `json:"adverse"`
}

type HierarchySummary struct {
	Hospitals   int `json:"hospitals"`
	Departments int `json:"departments"`
	Doctors     int `json:"doctors"`
}

type SyncSummary struct {
	Tables      []string `json:"tables"`
	RowsWritten int      `json:"rows_written"`
	ArchivedAs  string   `json:"archived_as,omitempty"`
	Alerts      int      `json:"alerts"`
}
