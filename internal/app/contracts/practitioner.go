package contracts

import (
	"context"

	"kpim-service/internal/pkg/fhir_dto"
)

type PractitionerFhirClient interface {
	FindPractitionersByIDs(ctx context.Context, practitionerIDs []string) ([]fhir_dto.Practitioner, error)
	CreatePractitioner(ctx context.Context, request *fhir_dto.Practitioner) (*fhir_dto.Practitioner, error)
}
