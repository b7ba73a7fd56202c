package models

import "time"

type EventType string

const (
	EventTypeSurvived          EventType = "survived"
	EventTypeDeath             EventType = "death_within_window"
	EventTypeCriticalDischarge EventType = "critical_discharge_within_window"
)

// ClassifiedCase is one linked (procedure, patient, encounter) triple after
// outcome classification. Derived only; never written back to the store.
type ClassifiedCase struct {
	PatientID        string     `json:"patient_id" bson:"patient_id"`
	ProcedureID      string     `json:"procedure_id" bson:"procedure_id"`
	OperationEnd     time.Time  `json:"operation_end" bson:"operation_end"`
	Month            string     `json:"month" bson:"month"`
	DoctorName       string     `json:"doctor_name" bson:"doctor_name"`
	DepartmentID     string     `json:"department_id,omitempty" bson:"department_id,omitempty"`
	DepartmentName   string     `json:"department_name,omitempty" bson:"department_name,omitempty"`
	ProcedureName    string     `json:"procedure_name" bson:"procedure_name"`
	IsNumerator      bool       `json:"is_numerator" bson:"is_numerator"`
	EventType        EventType  `json:"event_type" bson:"event_type"`
	EventTimestamp   *time.Time `json:"event_timestamp,omitempty" bson:"event_timestamp,omitempty"`
}

// CaseOutcome is the explicit per-case processing result: a case is either
// classified, excluded for a named reason, or the triple never linked.
type CaseOutcome int

const (
	CaseClassified CaseOutcome = iota
	CaseExcludedMissingPatient
	CaseExcludedMissingEncounter
	CaseExcludedNoOperationEnd
	CaseExcludedMalformedTimestamp
	CaseExcludedNotInpatient
)

// LinkStats makes data-completeness loss observable in aggregate instead of
// silently shrinking the denominator.
type LinkStats struct {
	TotalProcedures     int `json:"total_procedures"`
	Classified          int `json:"classified"`
	MissingPatient      int `json:"missing_patient"`
	MissingEncounter    int `json:"missing_encounter"`
	NoOperationEnd      int `json:"no_operation_end"`
	MalformedTimestamp  int `json:"malformed_timestamp"`
	NotInpatient        int `json:"not_inpatient"`
	FailedFetchChunks   int `json:"failed_fetch_chunks"`
}

func (s *LinkStats) CountOutcome(outcome CaseOutcome) {
	switch outcome {
	case CaseClassified:
		s.Classified++
	case CaseExcludedMissingPatient:
		s.MissingPatient++
	case CaseExcludedMissingEncounter:
		s.MissingEncounter++
	case CaseExcludedNoOperationEnd:
		s.NoOperationEnd++
	case CaseExcludedMalformedTimestamp:
		s.MalformedTimestamp++
	case CaseExcludedNotInpatient:
		s.NotInpatient++
	}
}

func (s LinkStats) Dropped() int {
	return s.TotalProcedures - s.Classified
}
