package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/performile/courier-platform/internal/core/domain"
)

const (
	collectionReviews  = "courier_reviews"
	collectionRankings = "courier_rankings"
)

// Ranking score weights. Review quality dominates; on-time rate tempers it.
const (
	weightRating = 0.7
	weightOnTime = 0.3
)

// RankingRepository recomputes and upserts courier ranking scores from the
// review history. Recomputation is a pure function of the stored reviews, so
// repeating it is harmless; a lost update is repaired by the next trigger.
type RankingRepository struct {
	reviews  *mongo.Collection
	rankings *mongo.Collection
}

func NewRankingRepository(db *mongo.Database) *RankingRepository {
	return &RankingRepository{
		reviews:  db.Collection(collectionReviews),
		rankings: db.Collection(collectionRankings),
	}
}

// RecomputeScore aggregates the courier's reviews (scoped to postalCode when
// given) and upserts the resulting ranking score.
func (r *RankingRepository) RecomputeScore(ctx context.Context, courierID string, postalCode *string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"courier_id": courierID}
	if postalCode != nil {
		match["postal_code"] = *postalCode
	}

	cur, err := r.reviews.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"avg_rating":  bson.M{"$avg": "$rating"},
			"on_time":     bson.M{"$avg": "$on_time"},
			"total_count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return fmt.Errorf("ranking aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var agg struct {
		AvgRating  float64 `bson:"avg_rating"`
		OnTime     float64 `bson:"on_time"`
		TotalCount int     `bson:"total_count"`
	}
	score := 0.0
	if cur.Next(ctx) {
		if err := cur.Decode(&agg); err != nil {
			return fmt.Errorf("ranking decode: %w", err)
		}
		// avg_rating is on a 0-5 scale, on_time on 0-1.
		score = weightRating*agg.AvgRating + weightOnTime*agg.OnTime*5
	}

	postal := ""
	if postalCode != nil {
		postal = *postalCode
	}
	filter := bson.M{"courier_id": courierID, "postal_code": postal}

	update := bson.M{"$set": domain.RankingScore{
		CourierID:  courierID,
		PostalCode: postal,
		Score:      score,
		Reviews:    agg.TotalCount,
	}}

	_, err = r.rankings.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ranking upsert: %w", err)
	}
	return nil
}
