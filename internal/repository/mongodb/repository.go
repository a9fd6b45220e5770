// Package mongodb persists the ledger collections in MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	eventsCollection    = "events"
	costItemsCollection = "cost_items"
	cropsCollection     = "crops"
	clientsCollection   = "customers"
	smsLogsCollection   = "sms_logs"
	snapshotsCollection = "ledger_snapshots"
)

// MongoDBRepository implements the repository interfaces on top of a MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects, pings and prepares indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		eventsCollection:    {Keys: bson.D{{Key: "crop_id", Value: 1}, {Key: "date", Value: 1}}},
		costItemsCollection: {Keys: bson.D{{Key: "crop_id", Value: 1}}},
		snapshotsCollection: {Keys: bson.D{{Key: "crop_id", Value: 1}, {Key: "date", Value: -1}}},
	}
	for coll, model := range indexes {
		name, err := r.db.Collection(coll).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
		r.logger.Debug("index ready", zap.String("collection", coll), zap.String("index", name))
	}
	return nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
