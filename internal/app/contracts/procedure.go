package contracts

import (
	"context"
	"time"

	"kpim-service/internal/pkg/fhir_dto"
)

type ProcedureFhirClient interface {
	FindProceduresSince(ctx context.Context, since time.Time, maxResults int) ([]fhir_dto.Procedure, error)
	CreateProcedure(ctx context.Context, request *fhir_dto.Procedure) (*fhir_dto.Procedure, error)
}
