package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/performile/courier-platform/internal/core/domain"
)

const collectionMerchantCouriers = "merchant_couriers"

type CourierRepository struct {
	col *mongo.Collection
}

func NewCourierRepository(db *mongo.Database) *CourierRepository {
	return &CourierRepository{col: db.Collection(collectionMerchantCouriers)}
}

// ListForMerchant returns the merchant's configured couriers ordered by rank.
// When postalCode is non-empty, rows are additionally filtered to selections
// serving that postal code.
func (r *CourierRepository) ListForMerchant(ctx context.Context, merchantID, postalCode string, limit int) ([]domain.MerchantCourierRow, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"merchant_id": merchantID}
	if postalCode != "" {
		// Selections with no postal scoping serve all postal codes.
		filter["$or"] = bson.A{
			bson.M{"postal_codes": postalCode},
			bson.M{"postal_codes": bson.M{"$exists": false}},
			bson.M{"postal_codes": bson.M{"$size": 0}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rank", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("merchant couriers find: %w", err)
	}
	defer cur.Close(ctx)

	var rows []domain.MerchantCourierRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("merchant couriers decode: %w", err)
	}
	return rows, nil
}

// EnsureIndexes creates necessary indexes on the merchant_couriers collection.
func (r *CourierRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "merchant_id", Value: 1}, {Key: "rank", Value: 1}}},
		{Keys: bson.D{{Key: "courier_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
