package models

// AggregateKey is the grouping key for one indicator row. Unused dimensions
// stay empty; Label carries the human-readable group name for flat keys
// (doctor table, month trend).
type AggregateKey struct {
	Hospital   string `json:"hospital,omitempty" bson:"hospital,omitempty"`
	Department string `json:"department,omitempty" bson:"department,omitempty"`
	Doctor     string `json:"doctor,omitempty" bson:"doctor,omitempty"`
	Indicator  string `json:"indicator,omitempty" bson:"indicator,omitempty"`
	Month      string `json:"month,omitempty" bson:"month,omitempty"`
	Label      string `json:"label,omitempty" bson:"label,omitempty"`
}

type AggregateRow struct {
	Key         AggregateKey `json:"key" bson:"key"`
	Numerator   int          `json:"numerator" bson:"numerator"`
	Denominator int          `json:"denominator" bson:"denominator"`
	RatePercent float64      `json:"rate_percent" bson:"rate_percent"`
	Status      string       `json:"status,omitempty" bson:"status,omitempty"`
}

// FlatRow is the column-name to scalar shape consumed by the aggregate sink.
type FlatRow map[string]interface{}

func (r AggregateRow) Flatten() FlatRow {
	row := FlatRow{
		"numerator":    r.Numerator,
		"denominator":  r.Denominator,
		"rate_percent": r.RatePercent,
	}
	if r.Key.Hospital != "" {
		row["hospital"] = r.Key.Hospital
	}
	if r.Key.Department != "" {
		row["department"] = r.Key.Department
	}
	if r.Key.Doctor != "" {
		row["doctor"] = r.Key.Doctor
	}
	if r.Key.Indicator != "" {
		row["indicator"] = r.Key.Indicator
	}
	if r.Key.Month != "" {
		row["month"] = r.Key.Month
	}
	if r.Key.Label != "" {
		row["label"] = r.Key.Label
	}
	if r.Status != "" {
		row["status"] = r.Status
	}
	return row
}
