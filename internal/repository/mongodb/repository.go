package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names consumed by the application. eggs/batches are written by
// the inspection machines; defect_logs/weight_logs are the legacy per-event
// path still read by older exports.
const (
	collEggs           = "eggs"
	collBatches        = "batches"
	collDefectLogs     = "defect_logs"
	collWeightLogs     = "weight_logs"
	collUsers          = "users"
	collNotifySettings = "notificationSettings"
	collFCMTokens      = "fcmTokens"
	collDailySummaries = "daily_summaries"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Repository holds the MongoDB connection shared by the collection-scoped
// accessors below.
type Repository struct {
	client *mongo.Client
	dbName string
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
