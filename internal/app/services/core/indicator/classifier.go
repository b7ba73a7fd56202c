package indicator

import (
	"kpim-service/internal/app/config"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"
)

// Classifier applies the two-rule outcome cascade to one linked
// (procedure, patient, encounter) triple. Pure: no I/O, no shared state.
type Classifier struct {
	windowHours         float64
	adverseDispositions map[string]struct{}
	inpatientOnly       bool
}

func NewClassifier(cfg config.Indicator) *Classifier {
	dispositions := make(map[string]struct{}, len(cfg.AdverseDispositions))
	for _, code := range cfg.AdverseDispositions {
		dispositions[code] = struct{}{}
	}
	return &Classifier{
		windowHours:         float64(cfg.WindowHours),
		adverseDispositions: dispositions,
		inpatientOnly:       cfg.InpatientOnly,
	}
}

// Classify returns the classified case and CaseClassified, or a zero case
// and the exclusion reason. Death takes priority over critical discharge;
// the window is exclusive at 0 hours and inclusive at windowHours. A
// malformed timestamp excludes the whole case, never a guessed default.
func (c *Classifier) Classify(procedure fhir_dto.Procedure, patient *fhir_dto.Patient, encounter *fhir_dto.Encounter) (models.ClassifiedCase, models.CaseOutcome) {
	if patient == nil {
		return models.ClassifiedCase{}, models.CaseExcludedMissingPatient
	}
	if encounter == nil {
		return models.ClassifiedCase{}, models.CaseExcludedMissingEncounter
	}
	if c.inpatientOnly && encounter.Class.Code != constvars.FhirEncounterClassInpatient {
		return models.ClassifiedCase{}, models.CaseExcludedNotInpatient
	}

	if procedure.PerformedPeriod.End == "" {
		return models.ClassifiedCase{}, models.CaseExcludedNoOperationEnd
	}
	operationEnd, err := utils.ParseFhirInstant(procedure.PerformedPeriod.End)
	if err != nil {
		return models.ClassifiedCase{}, models.CaseExcludedMalformedTimestamp
	}

	classified := models.ClassifiedCase{
		PatientID:      patient.ID,
		ProcedureID:    procedure.ID,
		OperationEnd:   operationEnd,
		Month:          utils.MonthBucket(operationEnd),
		DoctorName:     procedure.PerformerDisplay(),
		DepartmentID:   utils.ResolveReferenceID(encounter.ServiceProvider),
		DepartmentName: encounter.ServiceProvider.Display,
		ProcedureName:  procedure.CodeDisplay(),
		EventType:      models.EventTypeSurvived,
	}

	// Rule 1: death within the window.
	if patient.DeceasedDateTime != "" {
		deceasedAt, err := utils.ParseFhirInstant(patient.DeceasedDateTime)
		if err != nil {
			return models.ClassifiedCase{}, models.CaseExcludedMalformedTimestamp
		}
		hoursDiff := utils.HoursBetween(operationEnd, deceasedAt)
		if hoursDiff > 0 && hoursDiff <= c.windowHours {
			classified.IsNumerator = true
			classified.EventType = models.EventTypeDeath
			classified.EventTimestamp = &deceasedAt
			return classified, models.CaseClassified
		}
	}

	// Rule 2: discharge in a critical or against-advice state.
	if disposition := encounter.DischargeDispositionCode(); disposition != "" {
		if _, adverse := c.adverseDispositions[disposition]; adverse && encounter.Period.End != "" {
			dischargedAt, err := utils.ParseFhirInstant(encounter.Period.End)
			if err != nil {
				return models.ClassifiedCase{}, models.CaseExcludedMalformedTimestamp
			}
			hoursDiff := utils.HoursBetween(operationEnd, dischargedAt)
			if hoursDiff > 0 && hoursDiff <= c.windowHours {
				classified.IsNumerator = true
				classified.EventType = models.EventTypeCriticalDischarge
				classified.EventTimestamp = &dischargedAt
				return classified, models.CaseClassified
			}
		}
	}

	return classified, models.CaseClassified
}
