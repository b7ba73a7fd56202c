package reports

import (
	"context"
	"strings"
	"testing"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeIndicatorUsecase struct {
	providerRows  []models.AggregateRow
	trendRows     []models.AggregateRow
	breakdownRows []models.AggregateRow
}

func (f *fakeIndicatorUsecase) ProviderTable(ctx context.Context) (*responses.IndicatorTable, error) {
	return &responses.IndicatorTable{Rows: f.providerRows}, nil
}

func (f *fakeIndicatorUsecase) MonthlyTrend(ctx context.Context) (*responses.TrendSeries, error) {
	return &responses.TrendSeries{Points: f.trendRows}, nil
}

func (f *fakeIndicatorUsecase) Breakdown(ctx context.Context) (*responses.IndicatorTable, error) {
	return &responses.IndicatorTable{Rows: f.breakdownRows}, nil
}

func (f *fakeIndicatorUsecase) FlaggedCases(ctx context.Context) (*responses.FlaggedCases, error) {
	return &responses.FlaggedCases{}, nil
}

type fakeReportRepository struct {
	replaced map[string][]models.FlatRow
}

func (f *fakeReportRepository) ReplaceRows(ctx context.Context, tableName string, rows []models.FlatRow) error {
	if f.replaced == nil {
		f.replaced = make(map[string][]models.FlatRow)
	}
	f.replaced[tableName] = rows
	return nil
}

func (f *fakeReportRepository) FindRows(ctx context.Context, tableName string) ([]models.FlatRow, error) {
	return f.replaced[tableName], nil
}

type fakeAlertPublisher struct {
	published []models.AggregateRow
}

func (f *fakeAlertPublisher) PublishFlaggedRows(ctx context.Context, rows []models.AggregateRow) error {
	f.published = rows
	return nil
}

type fakeStorage struct {
	objectName  string
	contentType string
	data        []byte
}

func (f *fakeStorage) UploadObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error) {
	f.objectName = objectName
	f.contentType = contentType
	f.data = data
	return objectName, nil
}

func TestReportSync(t *testing.T) {
	flaggedRow := models.AggregateRow{
		Key:         models.AggregateKey{Doctor: "Dr. Wu (NAT_MED)", Label: "Dr. Wu (NAT_MED)"},
		Numerator:   2,
		Denominator: 10,
		RatePercent: 20.0,
		Status:      constvars.AggregateStatusFlagged,
	}
	normalRow := models.AggregateRow{
		Key:         models.AggregateKey{Doctor: "Dr. Liu (TP_GEN)", Label: "Dr. Liu (TP_GEN)"},
		Denominator: 12,
		Status:      constvars.AggregateStatusNormal,
	}
	breakdownRow := models.AggregateRow{
		Key: models.AggregateKey{
			Hospital:   "National Medical Center",
			Department: "National Medical Center Cardiology",
			Doctor:     "Dr. Wu (NAT_MED)",
			Indicator:  constvars.IndicatorName,
		},
		Numerator:   2,
		Denominator: 10,
		RatePercent: 20.0,
		Status:      constvars.AggregateStatusFlagged,
	}

	indicatorUsecase := &fakeIndicatorUsecase{
		providerRows:  []models.AggregateRow{flaggedRow, normalRow},
		trendRows:     []models.AggregateRow{{Key: models.AggregateKey{Month: "2025-03", Label: "2025-03"}, Denominator: 22, Status: constvars.AggregateStatusNormal}},
		breakdownRows: []models.AggregateRow{breakdownRow},
	}
	repository := &fakeReportRepository{}
	publisher := &fakeAlertPublisher{}
	storage := &fakeStorage{}

	usecase := NewReportUsecase(indicatorUsecase, repository, publisher, storage, "kpim-reports", zap.NewNop())

	summary, err := usecase.Sync(context.Background())
	assert.NoError(t, err)

	assert.ElementsMatch(t, []string{
		constvars.MongoCollectionProviderRows,
		constvars.MongoCollectionTrendRows,
		constvars.MongoCollectionBreakdownRows,
	}, summary.Tables)
	assert.Equal(t, 4, summary.RowsWritten)
	assert.Equal(t, 2, summary.Alerts, "flagged provider and breakdown rows both alert")
	assert.Len(t, publisher.published, 2)

	assert.Len(t, repository.replaced[constvars.MongoCollectionProviderRows], 2)
	assert.Len(t, repository.replaced[constvars.MongoCollectionSyncRuns], 1)

	assert.Equal(t, constvars.MIMETextCSV, storage.contentType)
	assert.Equal(t, summary.ArchivedAs, storage.objectName)
}

func TestRenderCSV(t *testing.T) {
	rows := []models.AggregateRow{{
		Key: models.AggregateKey{
			Hospital:   "Taipei General Hospital",
			Department: "Taipei General Hospital General Surgery",
			Doctor:     "Dr. Liu (TP_GEN)",
			Indicator:  constvars.IndicatorName,
		},
		Numerator:   1,
		Denominator: 3,
		RatePercent: 33.33,
		Status:      constvars.AggregateStatusFlagged,
	}}

	rendered, err := renderCSV(rows)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(rendered)), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "hospital,department,doctor,indicator,month,numerator,denominator,rate_percent,status", lines[0])
	assert.Contains(t, lines[1], "Dr. Liu (TP_GEN)")
	assert.Contains(t, lines[1], "33.33")
	assert.Contains(t, lines[1], constvars.AggregateStatusFlagged)
}
