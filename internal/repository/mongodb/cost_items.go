package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// ListCostItems returns the crop's line items in insertion order.
func (r *MongoDBRepository) ListCostItems(ctx context.Context, cropID string) ([]models.CostItem, error) {
	cursor, err := r.collection(costItemsCollection).Find(ctx, bson.M{"crop_id": cropID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query cost items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []costItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cost items: %w", err)
	}

	items := make([]models.CostItem, 0, len(docs))
	for _, doc := range docs {
		item, err := doc.toCostItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// InsertCostItem stores a new line item.
func (r *MongoDBRepository) InsertCostItem(ctx context.Context, item models.CostItem) error {
	doc, err := toCostItemDocument(item)
	if err != nil {
		return err
	}
	if _, err := r.collection(costItemsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert cost item: %w", err)
	}
	return nil
}

// UpdateCostItem replaces a stored line item.
func (r *MongoDBRepository) UpdateCostItem(ctx context.Context, item models.CostItem) error {
	doc, err := toCostItemDocument(item)
	if err != nil {
		return err
	}
	res, err := r.collection(costItemsCollection).ReplaceOne(ctx, bson.M{"_id": item.ID, "crop_id": item.CropID}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace cost item %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("cost item", item.ID)
	}
	return nil
}

// DeleteCostItem removes a line item from a crop.
func (r *MongoDBRepository) DeleteCostItem(ctx context.Context, cropID, itemID string) error {
	res, err := r.collection(costItemsCollection).DeleteOne(ctx, bson.M{"_id": itemID, "crop_id": cropID})
	if err != nil {
		return fmt.Errorf("failed to delete cost item %s: %w", itemID, err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("cost item", itemID)
	}
	return nil
}

// SetCropTotalCost writes the crop's recomputed total cost onto an existing crop
// document. Crops without a document are left alone; nothing is upserted.
func (r *MongoDBRepository) SetCropTotalCost(ctx context.Context, cropID string, total decimal.Decimal) error {
	value, err := toDecimal128(total)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"totalCost": value, "updatedAt": time.Now().UTC()}}
	res, err := r.collection(cropsCollection).UpdateOne(ctx, idFilter(cropID), update)
	if err != nil {
		return fmt.Errorf("failed to update crop %s total cost: %w", cropID, err)
	}
	if res.MatchedCount == 0 {
		r.logger.Debug("crop document not found, total cost not stored", zap.String("crop_id", cropID))
	}
	return nil
}
