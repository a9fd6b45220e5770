package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// ListClients returns every known customer.
func (r *MongoDBRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	cursor, err := r.collection(clientsCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []clientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}

	clients := make([]models.Client, 0, len(docs))
	for _, doc := range docs {
		client, err := doc.toClient()
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// GetClient loads one customer by id. Hex ids match ObjectId keys.
func (r *MongoDBRepository) GetClient(ctx context.Context, id string) (models.Client, error) {
	var doc clientDocument
	err := r.collection(clientsCollection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Client{}, models.NewNotFoundError("client", id)
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to load client %s: %w", id, err)
	}
	return doc.toClient()
}

// CreateClient stores a new active customer under a fresh ObjectId.
func (r *MongoDBRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	doc := clientDocument{
		ID:        oid,
		Name:      client.Name,
		Phone:     client.Phone,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection(clientsCollection).InsertOne(ctx, doc); err != nil {
		return models.Client{}, fmt.Errorf("failed to insert client: %w", err)
	}
	client.ID = oid.Hex()
	return client, nil
}
