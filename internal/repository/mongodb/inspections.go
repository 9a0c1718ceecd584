package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// ListInspections returns every eggs document for the account. Time filtering
// happens after timestamp normalization at the fetch boundary, because
// created_at is stored in heterogeneous shapes that a Mongo range filter
// cannot compare reliably.
func (r *Repository) ListInspections(ctx context.Context, accountID string) ([]models.RawInspection, error) {
	cursor, err := r.collection(collEggs).Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("find inspections for account %s: %w", accountID, err)
	}
	defer cursor.Close(ctx)

	var docs []models.RawInspection
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode inspections: %w", err)
	}
	return docs, nil
}

// ListBatches returns every batches document for the account.
func (r *Repository) ListBatches(ctx context.Context, accountID string) ([]models.Batch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection(collBatches).Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find batches for account %s: %w", accountID, err)
	}
	defer cursor.Close(ctx)

	var docs []models.Batch
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return docs, nil
}

// ListLegacyLogs reads the old defect_logs or weight_logs collections, which
// some long-standing accounts still carry alongside eggs documents.
func (r *Repository) ListLegacyLogs(ctx context.Context, accountID string, weight bool) ([]models.LegacyLog, error) {
	coll := collDefectLogs
	if weight {
		coll = collWeightLogs
	}

	cursor, err := r.collection(coll).Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("find %s for account %s: %w", coll, accountID, err)
	}
	defer cursor.Close(ctx)

	var docs []models.LegacyLog
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll, err)
	}
	return docs, nil
}

// InsertInspections bulk-inserts eggs documents. Only the dev seeder writes
// to this collection; production records come from the machines.
func (r *Repository) InsertInspections(ctx context.Context, docs []models.RawInspection) error {
	if len(docs) == 0 {
		return nil
	}
	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	if _, err := r.collection(collEggs).InsertMany(ctx, payload); err != nil {
		return fmt.Errorf("insert inspections: %w", err)
	}
	return nil
}

// InsertBatch inserts a batches document (dev seeder only).
func (r *Repository) InsertBatch(ctx context.Context, batch models.Batch) error {
	if _, err := r.collection(collBatches).InsertOne(ctx, batch); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}
