package synthesizer

import (
	"math/rand"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"
)

// caseSpec is one fully-drawn synthetic case: all random choices are made
// up front on a single goroutine, so persistence can run concurrently
// without any shared mutable state beyond the read-only hierarchy.
type caseSpec struct {
	Patient   fhir_dto.Patient
	Encounter fhir_dto.Encounter
	Procedure fhir_dto.Procedure
	IsAdverse bool
}

// buildCaseSpec draws one case for a random day in the lookback range. The
// adverse draw follows the risk model; an adverse case splits into death or
// against-advice discharge, with the event placed inside the post-operative
// window. Survivors discharge several days after surgery.
func buildCaseSpec(rng *rand.Rand, hierarchy models.Hierarchy, cfg config.Synthesizer, now time.Time) caseSpec {
	hospital := hierarchy.Hospitals[rng.Intn(len(hierarchy.Hospitals))]
	department := hospital.Departments[rng.Intn(len(hospital.Departments))]
	doctor := department.Doctors[rng.Intn(len(department.Doctors))]
	procedureTemplate := department.Procedures[rng.Intn(len(department.Procedures))]

	dayIndex := rng.Intn(cfg.DaysBack + 1)
	caseDate := now.AddDate(0, 0, -dayIndex)
	operationStart := time.Date(caseDate.Year(), caseDate.Month(), caseDate.Day(),
		8+rng.Intn(9), rng.Intn(60), 0, 0, time.UTC)
	operationEnd := operationStart.Add(time.Duration(60+rng.Intn(181)) * time.Minute)

	isAdverse := rng.Float64() < riskProbability(dayIndex, hospital.RiskFactor, cfg, rng)

	deceasedAt := time.Time{}
	disposition := constvars.FhirDispositionHome
	var dischargedAt time.Time
	if isAdverse {
		eventAt := operationEnd.Add(time.Duration(2+rng.Intn(45)) * time.Hour)
		if rng.Float64() < cfg.DeathSplit {
			deceasedAt = eventAt
			disposition = constvars.FhirDispositionExpired
		} else {
			disposition = constvars.FhirDispositionAgainstAdvice
		}
		dischargedAt = eventAt
	} else {
		dischargedAt = operationEnd.AddDate(0, 0, 3+rng.Intn(6))
	}

	gender := constvars.FhirGenderMale
	givenNames := patientGivenNamesMale
	if rng.Intn(2) == 0 {
		gender = constvars.FhirGenderFemale
		givenNames = patientGivenNamesFemale
	}

	patient := fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		ID:           utils.GenerateResourceID(),
		Active:       true,
		Gender:       gender,
		Name: []fhir_dto.HumanName{{
			Family: patientFamilyNames[rng.Intn(len(patientFamilyNames))],
			Given:  []string{givenNames[rng.Intn(len(givenNames))]},
		}},
	}
	if !deceasedAt.IsZero() {
		patient.DeceasedDateTime = utils.FormatFhirInstant(deceasedAt)
	}

	departmentReference := utils.BuildReference(constvars.ResourceOrganization, department.OrgID)
	departmentReference.Display = department.Name

	encounter := fhir_dto.Encounter{
		ResourceType: constvars.ResourceEncounter,
		ID:           utils.GenerateResourceID(),
		Status:       constvars.FhirEncounterStatusFinished,
		Class: fhir_dto.Coding{
			System: constvars.FhirEncounterClassSystem,
			Code:   constvars.FhirEncounterClassInpatient,
		},
		Subject: utils.BuildReference(constvars.ResourcePatient, patient.ID),
		Period: fhir_dto.Period{
			Start: utils.FormatFhirInstant(operationStart.AddDate(0, 0, -1)),
			End:   utils.FormatFhirInstant(dischargedAt),
		},
		Hospitalization: &fhir_dto.EncounterHospitalization{
			DischargeDisposition: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{Code: disposition}},
			},
		},
		ServiceProvider: departmentReference,
	}

	doctorReference := utils.BuildReference(constvars.ResourcePractitioner, doctor.PractitionerID)
	doctorReference.Display = doctor.Name

	procedure := fhir_dto.Procedure{
		ResourceType: constvars.ResourceProcedure,
		ID:           utils.GenerateResourceID(),
		Status:       constvars.FhirProcedureStatusCompleted,
		Subject:      utils.BuildReference(constvars.ResourcePatient, patient.ID),
		Encounter:    utils.BuildReference(constvars.ResourceEncounter, encounter.ID),
		PerformedPeriod: fhir_dto.Period{
			Start: utils.FormatFhirInstant(operationStart),
			End:   utils.FormatFhirInstant(operationEnd),
		},
		Code: fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{
				System:  constvars.FhirProcedureCodeSystemSNOMED,
				Code:    procedureTemplate.Code,
				Display: procedureTemplate.Display,
			}},
		},
		Performer: []fhir_dto.ProcedurePerformer{{Actor: doctorReference}},
	}

	return caseSpec{
		Patient:   patient,
		Encounter: encounter,
		Procedure: procedure,
		IsAdverse: isAdverse,
	}
}
