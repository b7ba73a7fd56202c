package contracts

import (
	"context"

	"kpim-service/internal/pkg/dto/responses"
)

type IndicatorUsecase interface {
	ProviderTable(ctx context.Context) (*responses.IndicatorTable, error)
	MonthlyTrend(ctx context.Context) (*responses.TrendSeries, error)
	Breakdown(ctx context.Context) (*responses.IndicatorTable, error)
	FlaggedCases(ctx context.Context) (*responses.FlaggedCases, error)
}
