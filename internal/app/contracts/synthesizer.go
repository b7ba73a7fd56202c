package contracts

import (
	"context"

	"kpim-service/internal/pkg/dto/requests"
	"kpim-service/internal/pkg/dto/responses"
)

type SynthesizerUsecase interface {
	BuildHierarchy(ctx context.Context) (*responses.HierarchySummary, error)
	GenerateCases(ctx context.Context, request *requests.GenerateCases) (*responses.GenerationSummary, error)
}
