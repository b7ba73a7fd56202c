package indicator

import (
	"testing"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
)

var testIndicatorConfig = config.Indicator{
	WindowHours:         48,
	AdverseDispositions: []string{"aadvice", "exp"},
}

func testOperationEnd() time.Time {
	return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
}

func testProcedure() fhir_dto.Procedure {
	operationEnd := testOperationEnd()
	return fhir_dto.Procedure{
		ID:      "proc-1",
		Subject: utils.BuildReference("Patient", "pat-1"),
		PerformedPeriod: fhir_dto.Period{
			Start: utils.FormatFhirInstant(operationEnd.Add(-2 * time.Hour)),
			End:   utils.FormatFhirInstant(operationEnd),
		},
		Code: fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{Code: "80146002", Display: "Laparoscopic appendectomy"}},
		},
		Performer: []fhir_dto.ProcedurePerformer{{
			Actor: fhir_dto.Reference{Reference: "Practitioner/doc-1", Display: "Dr. Liu (TP_GEN)"},
		}},
	}
}

func testPatient() *fhir_dto.Patient {
	return &fhir_dto.Patient{ID: "pat-1"}
}

func testEncounter(disposition string, dischargedAt time.Time) *fhir_dto.Encounter {
	encounter := &fhir_dto.Encounter{
		ID:     "enc-1",
		Status: "finished",
		Class:  fhir_dto.Coding{Code: "IMP"},
		Period: fhir_dto.Period{
			Start: utils.FormatFhirInstant(testOperationEnd().AddDate(0, 0, -1)),
			End:   utils.FormatFhirInstant(dischargedAt),
		},
		ServiceProvider: fhir_dto.Reference{Reference: "Organization/dept-1", Display: "Taipei General Hospital General Surgery"},
	}
	if disposition != "" {
		encounter.Hospitalization = &fhir_dto.EncounterHospitalization{
			DischargeDisposition: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{Code: disposition}},
			},
		}
	}
	return encounter
}

func TestClassifyDeathRule(t *testing.T) {
	classifier := NewClassifier(testIndicatorConfig)
	operationEnd := testOperationEnd()

	t.Run("Death inside window counts as numerator", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd.Add(24 * time.Hour))

		classified, outcome := classifier.Classify(testProcedure(), patient, testEncounter("exp", operationEnd.Add(24*time.Hour)))
		assert.Equal(t, models.CaseClassified, outcome)
		assert.True(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeDeath, classified.EventType)
	})

	t.Run("Death at exactly the window bound counts", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd.Add(48 * time.Hour))

		classified, outcome := classifier.Classify(testProcedure(), patient, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseClassified, outcome)
		assert.True(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeDeath, classified.EventType)
	})

	t.Run("Death one second past the window does not count", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd.Add(48*time.Hour + time.Second))

		classified, outcome := classifier.Classify(testProcedure(), patient, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseClassified, outcome)
		assert.False(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeSurvived, classified.EventType)
	})

	t.Run("Death at the operation end does not count", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd)

		classified, outcome := classifier.Classify(testProcedure(), patient, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseClassified, outcome)
		assert.False(t, classified.IsNumerator, "an event at the lower bound is outside the exclusive-zero window")
	})

	t.Run("Death before the operation does not count", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd.Add(-time.Hour))

		classified, _ := classifier.Classify(testProcedure(), patient, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.False(t, classified.IsNumerator)
	})
}

func TestClassifyDischargeRule(t *testing.T) {
	classifier := NewClassifier(testIndicatorConfig)
	operationEnd := testOperationEnd()

	t.Run("Against-advice discharge inside window counts", func(t *testing.T) {
		classified, outcome := classifier.Classify(testProcedure(), testPatient(), testEncounter("aadvice", operationEnd.Add(30*time.Hour)))
		assert.Equal(t, models.CaseClassified, outcome)
		assert.True(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeCriticalDischarge, classified.EventType)
	})

	t.Run("Expired disposition inside window counts", func(t *testing.T) {
		classified, _ := classifier.Classify(testProcedure(), testPatient(), testEncounter("exp", operationEnd.Add(30*time.Hour)))
		assert.True(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeCriticalDischarge, classified.EventType)
	})

	t.Run("Adverse disposition outside window does not count", func(t *testing.T) {
		classified, _ := classifier.Classify(testProcedure(), testPatient(), testEncounter("aadvice", operationEnd.Add(72*time.Hour)))
		assert.False(t, classified.IsNumerator)
		assert.Equal(t, models.EventTypeSurvived, classified.EventType)
	})

	t.Run("Routine discharge does not count", func(t *testing.T) {
		classified, _ := classifier.Classify(testProcedure(), testPatient(), testEncounter("home", operationEnd.Add(30*time.Hour)))
		assert.False(t, classified.IsNumerator)
	})

	t.Run("Missing hospitalization block does not count", func(t *testing.T) {
		classified, _ := classifier.Classify(testProcedure(), testPatient(), testEncounter("", operationEnd.Add(30*time.Hour)))
		assert.False(t, classified.IsNumerator)
	})
}

func TestClassifyRulePriority(t *testing.T) {
	classifier := NewClassifier(testIndicatorConfig)
	operationEnd := testOperationEnd()

	// Both rules match; the case must be reported once, as a death.
	patient := testPatient()
	patient.DeceasedDateTime = utils.FormatFhirInstant(operationEnd.Add(20 * time.Hour))

	classified, outcome := classifier.Classify(testProcedure(), patient, testEncounter("exp", operationEnd.Add(20*time.Hour)))
	assert.Equal(t, models.CaseClassified, outcome)
	assert.True(t, classified.IsNumerator)
	assert.Equal(t, models.EventTypeDeath, classified.EventType)
}

func TestClassifyExclusions(t *testing.T) {
	classifier := NewClassifier(testIndicatorConfig)
	operationEnd := testOperationEnd()

	t.Run("Missing patient excludes the case", func(t *testing.T) {
		_, outcome := classifier.Classify(testProcedure(), nil, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseExcludedMissingPatient, outcome)
	})

	t.Run("Missing encounter excludes the case", func(t *testing.T) {
		_, outcome := classifier.Classify(testProcedure(), testPatient(), nil)
		assert.Equal(t, models.CaseExcludedMissingEncounter, outcome)
	})

	t.Run("Missing operation end excludes the case", func(t *testing.T) {
		procedure := testProcedure()
		procedure.PerformedPeriod.End = ""
		_, outcome := classifier.Classify(procedure, testPatient(), testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseExcludedNoOperationEnd, outcome)
	})

	t.Run("Malformed operation end excludes the case", func(t *testing.T) {
		procedure := testProcedure()
		procedure.PerformedPeriod.End = "not-a-timestamp"
		_, outcome := classifier.Classify(procedure, testPatient(), testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseExcludedMalformedTimestamp, outcome)
	})

	t.Run("Malformed deceased timestamp excludes the whole case", func(t *testing.T) {
		patient := testPatient()
		patient.DeceasedDateTime = "yesterday"
		_, outcome := classifier.Classify(testProcedure(), patient, testEncounter("home", operationEnd.AddDate(0, 0, 5)))
		assert.Equal(t, models.CaseExcludedMalformedTimestamp, outcome)
	})

	t.Run("Inpatient filter excludes ambulatory encounters when enabled", func(t *testing.T) {
		cfg := testIndicatorConfig
		cfg.InpatientOnly = true
		strict := NewClassifier(cfg)

		encounter := testEncounter("home", operationEnd.AddDate(0, 0, 5))
		encounter.Class.Code = "AMB"
		_, outcome := strict.Classify(testProcedure(), testPatient(), encounter)
		assert.Equal(t, models.CaseExcludedNotInpatient, outcome)
	})
}

func TestClassifyPopulatesDimensions(t *testing.T) {
	classifier := NewClassifier(testIndicatorConfig)

	classified, outcome := classifier.Classify(testProcedure(), testPatient(), testEncounter("home", testOperationEnd().AddDate(0, 0, 5)))
	assert.Equal(t, models.CaseClassified, outcome)
	assert.Equal(t, "pat-1", classified.PatientID)
	assert.Equal(t, "proc-1", classified.ProcedureID)
	assert.Equal(t, "2025-03", classified.Month)
	assert.Equal(t, "Dr. Liu (TP_GEN)", classified.DoctorName)
	assert.Equal(t, "dept-1", classified.DepartmentID)
	assert.Equal(t, "Laparoscopic appendectomy", classified.ProcedureName)
}
