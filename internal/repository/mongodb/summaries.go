package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// SaveDailySummary upserts the nightly snapshot for (account, date) so a
// re-run of the job overwrites rather than duplicates.
func (r *Repository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	filter := bson.M{"account_id": summary.AccountID, "date": summary.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(collDailySummaries).ReplaceOne(ctx, filter, summary, opts); err != nil {
		return fmt.Errorf("save daily summary for %s: %w", summary.AccountID, err)
	}
	return nil
}

// ListDailySummaries returns stored snapshots for the account, newest first.
func (r *Repository) ListDailySummaries(ctx context.Context, accountID string, limit int64) ([]models.DailySummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection(collDailySummaries).Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find daily summaries for %s: %w", accountID, err)
	}
	defer cursor.Close(ctx)

	var docs []models.DailySummary
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode daily summaries: %w", err)
	}
	return docs, nil
}
