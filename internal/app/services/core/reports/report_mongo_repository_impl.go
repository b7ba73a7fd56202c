package reports

import (
	"context"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportMongoRepository struct {
	Database *mongo.Database
}

func NewReportMongoRepository(db *mongo.Client, dbName string) contracts.ReportRepository {
	return &ReportMongoRepository{
		Database: db.Database(dbName),
	}
}

// ReplaceRows swaps the full contents of one aggregate table. The sink holds
// derived data only, so a wholesale replace per sync run keeps it consistent
// with the indicator state without incremental bookkeeping.
func (repo *ReportMongoRepository) ReplaceRows(ctx context.Context, tableName string, rows []models.FlatRow) error {
	collection := repo.Database.Collection(tableName)

	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	if len(rows) == 0 {
		return nil
	}

	documents := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, row)
	}
	if _, err := collection.InsertMany(ctx, documents); err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *ReportMongoRepository) FindRows(ctx context.Context, tableName string) ([]models.FlatRow, error) {
	var rows []models.FlatRow
	cursor, err := repo.Database.Collection(tableName).Find(ctx, bson.M{})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &rows)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return rows, nil
}
