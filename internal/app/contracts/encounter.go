package contracts

import (
	"context"

	"kpim-service/internal/pkg/fhir_dto"
)

type EncounterFhirClient interface {
	FindEncountersByIDs(ctx context.Context, encounterIDs []string) ([]fhir_dto.Encounter, error)
	CreateEncounter(ctx context.Context, request *fhir_dto.Encounter) (*fhir_dto.Encounter, error)
}
