package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// ListEvents returns a crop's events in date order.
func (r *MongoDBRepository) ListEvents(ctx context.Context, cropID string) ([]models.Event, error) {
	return r.findEvents(ctx, bson.M{"crop_id": cropID})
}

// ListAllEvents returns every stored event in date order.
func (r *MongoDBRepository) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	return r.findEvents(ctx, bson.M{})
}

func (r *MongoDBRepository) findEvents(ctx context.Context, filter bson.M) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.collection(eventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	events := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		ev, err := doc.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// GetEvent loads a single event.
func (r *MongoDBRepository) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var doc eventDocument
	err := r.collection(eventsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, models.NewNotFoundError("event", id)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return doc.toEvent()
}

// AppendEvent inserts ev and returns its id.
func (r *MongoDBRepository) AppendEvent(ctx context.Context, ev models.Event) (string, error) {
	if ev.ID == "" {
		ev.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now

	doc, err := toEventDocument(ev)
	if err != nil {
		return "", err
	}
	if _, err := r.collection(eventsCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	r.logger.Debug("event appended", zap.String("event_id", ev.ID), zap.String("crop_id", ev.CropID), zap.String("kind", string(ev.Kind)))
	return ev.ID, nil
}

// UpdateEvent replaces the whole stored record.
func (r *MongoDBRepository) UpdateEvent(ctx context.Context, id string, ev models.Event) error {
	ev.ID = id
	ev.UpdatedAt = time.Now().UTC()
	doc, err := toEventDocument(ev)
	if err != nil {
		return err
	}

	res, err := r.collection(eventsCollection).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace event %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("event", id)
	}
	return nil
}

// DeleteEvent removes a stored record.
func (r *MongoDBRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.collection(eventsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("event", id)
	}
	return nil
}

// CropIDs lists the crops that have events.
func (r *MongoDBRepository) CropIDs(ctx context.Context) ([]string, error) {
	values, err := r.collection(eventsCollection).Distinct(ctx, "crop_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list crop ids: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
