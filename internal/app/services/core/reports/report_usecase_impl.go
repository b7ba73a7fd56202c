package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/responses"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	reportUsecaseInstance contracts.ReportUsecase
	onceReportUsecase     sync.Once
)

type reportUsecase struct {
	IndicatorUsecase contracts.IndicatorUsecase
	ReportRepository contracts.ReportRepository
	AlertPublisher   contracts.AlertPublisher
	Storage          contracts.Storage
	BucketName       string
	Log              *zap.Logger
}

func NewReportUsecase(
	indicatorUsecase contracts.IndicatorUsecase,
	reportRepository contracts.ReportRepository,
	alertPublisher contracts.AlertPublisher,
	storage contracts.Storage,
	bucketName string,
	logger *zap.Logger,
) contracts.ReportUsecase {
	onceReportUsecase.Do(func() {
		usecase := &reportUsecase{
			IndicatorUsecase: indicatorUsecase,
			ReportRepository: reportRepository,
			AlertPublisher:   alertPublisher,
			Storage:          storage,
			BucketName:       bucketName,
			Log:              logger,
		}
		reportUsecaseInstance = usecase
	})
	return reportUsecaseInstance
}

// Sync recomputes the three aggregations, replaces the downstream tables,
// archives the breakdown as CSV and raises an alert message for every table
// that produced flagged rows.
func (u *reportUsecase) Sync(ctx context.Context) (*responses.SyncSummary, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("reportUsecase.Sync called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	providerTable, err := u.IndicatorUsecase.ProviderTable(ctx)
	if err != nil {
		return nil, err
	}
	trendSeries, err := u.IndicatorUsecase.MonthlyTrend(ctx)
	if err != nil {
		return nil, err
	}
	breakdownTable, err := u.IndicatorUsecase.Breakdown(ctx)
	if err != nil {
		return nil, err
	}

	summary := &responses.SyncSummary{}
	tables := []struct {
		name string
		rows []models.AggregateRow
	}{
		{constvars.MongoCollectionProviderRows, providerTable.Rows},
		{constvars.MongoCollectionTrendRows, trendSeries.Points},
		{constvars.MongoCollectionBreakdownRows, breakdownTable.Rows},
	}

	for _, table := range tables {
		flatRows := make([]models.FlatRow, 0, len(table.rows))
		for _, row := range table.rows {
			flatRows = append(flatRows, row.Flatten())
		}
		if err := u.ReportRepository.ReplaceRows(ctx, table.name, flatRows); err != nil {
			return nil, err
		}
		summary.Tables = append(summary.Tables, table.name)
		summary.RowsWritten += len(flatRows)

		u.Log.Debug("reportUsecase.Sync table replaced",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTableNameKey, table.name),
			zap.Int(constvars.LoggingRowCountKey, len(flatRows)),
		)
	}

	runAt := time.Now().UTC()
	runRecord := models.FlatRow{
		"indicator":    constvars.IndicatorName,
		"synced_at":    runAt,
		"rows_written": summary.RowsWritten,
		"dropped":      breakdownTable.Stats.Dropped(),
	}
	if err := u.ReportRepository.ReplaceRows(ctx, constvars.MongoCollectionSyncRuns, []models.FlatRow{runRecord}); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s_%s.csv", constvars.MongoCollectionBreakdownRows, runAt.Format("20060102_150405"))
	csvSnapshot, err := renderCSV(breakdownTable.Rows)
	if err != nil {
		return nil, err
	}
	archived, err := u.Storage.UploadObject(ctx, u.BucketName, objectName, csvSnapshot, constvars.MIMETextCSV)
	if err != nil {
		return nil, err
	}
	summary.ArchivedAs = archived

	flagged := make([]models.AggregateRow, 0)
	for _, table := range tables {
		for _, row := range table.rows {
			if row.Status == constvars.AggregateStatusFlagged {
				flagged = append(flagged, row)
			}
		}
	}
	if err := u.AlertPublisher.PublishFlaggedRows(ctx, flagged); err != nil {
		return nil, err
	}
	summary.Alerts = len(flagged)

	u.Log.Info("reportUsecase.Sync succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingRowCountKey, summary.RowsWritten),
		zap.String(constvars.LoggingObjectNameKey, summary.ArchivedAs),
		zap.Int("alert_count", summary.Alerts),
	)
	return summary, nil
}

func renderCSV(rows []models.AggregateRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"hospital", "department", "doctor", "indicator", "month", "numerator", "denominator", "rate_percent", "status"})
	for _, row := range rows {
		writer.Write([]string{
			row.Key.Hospital,
			row.Key.Department,
			row.Key.Doctor,
			row.Key.Indicator,
			row.Key.Month,
			strconv.Itoa(row.Numerator),
			strconv.Itoa(row.Denominator),
			strconv.FormatFloat(row.RatePercent, 'f', 2, 64),
			row.Status,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
