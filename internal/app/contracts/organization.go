package contracts

import (
	"context"

	"kpim-service/internal/pkg/fhir_dto"
)

type OrganizationFhirClient interface {
	FindOrganizationsByIDs(ctx context.Context, organizationIDs []string) ([]fhir_dto.Organization, error)
	CreateOrganization(ctx context.Context, request *fhir_dto.Organization) (*fhir_dto.Organization, error)
}
