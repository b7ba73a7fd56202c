package indicator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeProcedureClient struct {
	procedures []fhir_dto.Procedure
	calls      int
}

func (f *fakeProcedureClient) FindProceduresSince(ctx context.Context, since time.Time, maxResults int) ([]fhir_dto.Procedure, error) {
	f.calls++
	return f.procedures, nil
}

func (f *fakeProcedureClient) CreateProcedure(ctx context.Context, request *fhir_dto.Procedure) (*fhir_dto.Procedure, error) {
	return request, nil
}

type fakePatientClient struct {
	patients map[string]fhir_dto.Patient
}

func (f *fakePatientClient) FindPatientsByIDs(ctx context.Context, ids []string) ([]fhir_dto.Patient, error) {
	found := make([]fhir_dto.Patient, 0, len(ids))
	for _, id := range ids {
		if patient, ok := f.patients[id]; ok {
			found = append(found, patient)
		}
	}
	return found, nil
}

func (f *fakePatientClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	return request, nil
}

type fakeEncounterClient struct {
	encounters map[string]fhir_dto.Encounter
}

func (f *fakeEncounterClient) FindEncountersByIDs(ctx context.Context, ids []string) ([]fhir_dto.Encounter, error) {
	found := make([]fhir_dto.Encounter, 0, len(ids))
	for _, id := range ids {
		if encounter, ok := f.encounters[id]; ok {
			found = append(found, encounter)
		}
	}
	return found, nil
}

func (f *fakeEncounterClient) CreateEncounter(ctx context.Context, request *fhir_dto.Encounter) (*fhir_dto.Encounter, error) {
	return request, nil
}

type fakeOrganizationClient struct {
	organizations map[string]fhir_dto.Organization
}

func (f *fakeOrganizationClient) FindOrganizationsByIDs(ctx context.Context, ids []string) ([]fhir_dto.Organization, error) {
	found := make([]fhir_dto.Organization, 0, len(ids))
	for _, id := range ids {
		if organization, ok := f.organizations[id]; ok {
			found = append(found, organization)
		}
	}
	return found, nil
}

func (f *fakeOrganizationClient) CreateOrganization(ctx context.Context, request *fhir_dto.Organization) (*fhir_dto.Organization, error) {
	return request, nil
}

type fakePractitionerClient struct{}

func (f *fakePractitionerClient) FindPractitionersByIDs(ctx context.Context, ids []string) ([]fhir_dto.Practitioner, error) {
	return nil, nil
}

func (f *fakePractitionerClient) CreatePractitioner(ctx context.Context, request *fhir_dto.Practitioner) (*fhir_dto.Practitioner, error) {
	return request, nil
}

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = string(jsonValue)
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func usecaseProcedure(id, patientID, encounterID, doctor string, operationEnd time.Time) fhir_dto.Procedure {
	return fhir_dto.Procedure{
		ID:        id,
		Subject:   utils.BuildReference("Patient", patientID),
		Encounter: utils.BuildReference("Encounter", encounterID),
		PerformedPeriod: fhir_dto.Period{
			Start: utils.FormatFhirInstant(operationEnd.Add(-2 * time.Hour)),
			End:   utils.FormatFhirInstant(operationEnd),
		},
		Performer: []fhir_dto.ProcedurePerformer{{
			Actor: fhir_dto.Reference{Reference: "Practitioner/doc-1", Display: doctor},
		}},
	}
}

func TestIndicatorProviderTable(t *testing.T) {
	operationEnd := time.Now().UTC().AddDate(0, 0, -10)
	doctor := "Dr. Liu (TP_GEN)"

	deceased := fhir_dto.Patient{ID: "pat-1", DeceasedDateTime: utils.FormatFhirInstant(operationEnd.Add(12 * time.Hour))}
	survivor := fhir_dto.Patient{ID: "pat-2"}

	encounter := func(id string) fhir_dto.Encounter {
		return fhir_dto.Encounter{
			ID:    id,
			Class: fhir_dto.Coding{Code: "IMP"},
			Period: fhir_dto.Period{
				Start: utils.FormatFhirInstant(operationEnd.AddDate(0, 0, -1)),
				End:   utils.FormatFhirInstant(operationEnd.AddDate(0, 0, 5)),
			},
			ServiceProvider: fhir_dto.Reference{Reference: "Organization/dept-1", Display: "Taipei General Hospital General Surgery"},
		}
	}

	procedureClient := &fakeProcedureClient{procedures: []fhir_dto.Procedure{
		usecaseProcedure("proc-1", "pat-1", "enc-1", doctor, operationEnd),
		usecaseProcedure("proc-2", "pat-2", "enc-2", doctor, operationEnd),
		// References a patient the store cannot resolve.
		usecaseProcedure("proc-3", "pat-missing", "enc-3", doctor, operationEnd),
	}}

	internalConfig := &config.InternalConfig{
		App: config.App{CacheTTLSeconds: 300},
		Indicator: config.Indicator{
			WindowHours:          48,
			AdverseDispositions:  []string{"aadvice", "exp"},
			RiskThresholdPercent: 2.0,
			FetchChunkSize:       50,
			LookbackDays:         180,
			MaxProcedures:        200,
		},
	}

	usecase := NewIndicatorUsecase(
		procedureClient,
		&fakePatientClient{patients: map[string]fhir_dto.Patient{"pat-1": deceased, "pat-2": survivor}},
		&fakeEncounterClient{encounters: map[string]fhir_dto.Encounter{
			"enc-1": encounter("enc-1"),
			"enc-2": encounter("enc-2"),
			"enc-3": encounter("enc-3"),
		}},
		&fakeOrganizationClient{organizations: map[string]fhir_dto.Organization{
			"dept-1": {ID: "dept-1", PartOf: fhir_dto.Reference{Reference: "Organization/hosp-1", Display: "Taipei General Hospital"}},
		}},
		&fakePractitionerClient{},
		&fakeCache{},
		internalConfig,
		zap.NewNop(),
	)

	table, err := usecase.ProviderTable(context.Background())
	assert.NoError(t, err)

	// The unresolvable case shrinks the denominator, not the run.
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, doctor, table.Rows[0].Key.Doctor)
	assert.Equal(t, 1, table.Rows[0].Numerator)
	assert.Equal(t, 2, table.Rows[0].Denominator)
	assert.Equal(t, 50.0, table.Rows[0].RatePercent)

	assert.Equal(t, 3, table.Stats.TotalProcedures)
	assert.Equal(t, 2, table.Stats.Classified)
	assert.Equal(t, 1, table.Stats.MissingPatient)
	assert.Equal(t, 1, table.Stats.Dropped())

	t.Run("Second read is served from cache", func(t *testing.T) {
		callsBefore := procedureClient.calls
		cached, err := usecase.ProviderTable(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, table.Rows, cached.Rows)
		assert.Equal(t, callsBefore, procedureClient.calls)
	})

	t.Run("Breakdown resolves the owning hospital", func(t *testing.T) {
		breakdown, err := usecase.Breakdown(context.Background())
		assert.NoError(t, err)
		assert.Len(t, breakdown.Rows, 1)
		assert.Equal(t, "Taipei General Hospital", breakdown.Rows[0].Key.Hospital)
	})
}
