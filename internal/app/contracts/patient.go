package contracts

import (
	"context"

	"kpim-service/internal/pkg/fhir_dto"
)

type PatientFhirClient interface {
	FindPatientsByIDs(ctx context.Context, patientIDs []string) ([]fhir_dto.Patient, error)
	CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error)
}
