package contracts

import (
	"context"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/dto/responses"
)

// ReportRepository is the aggregate sink: flat rows per named table.
type ReportRepository interface {
	ReplaceRows(ctx context.Context, tableName string, rows []models.FlatRow) error
	FindRows(ctx context.Context, tableName string) ([]models.FlatRow, error)
}

type ReportUsecase interface {
	Sync(ctx context.Context) (*responses.SyncSummary, error)
}

type AlertPublisher interface {
	PublishFlaggedRows(ctx context.Context, rows []models.AggregateRow) error
}
