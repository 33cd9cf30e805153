package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/performile/courier-platform/internal/core/domain"
)

const collectionRateCards = "rate_cards"

// RateCardEngine implements the pricing computation against the rate_cards
// collection. It stands in for the platform's opaque backend pricing
// functions, honouring the same outcome contract: no row, an error-flagged
// row, or a priced row.
type RateCardEngine struct {
	col *mongo.Collection
}

func NewRateCardEngine(db *mongo.Database) *RateCardEngine {
	return &RateCardEngine{col: db.Collection(collectionRateCards)}
}

// CalculateShippingPrice prices one shipment from the courier's rate card.
func (e *RateCardEngine) CalculateShippingPrice(ctx context.Context, params domain.QuoteParams) (*domain.PriceBreakdown, error) {
	card, err := e.findCard(ctx, params.CourierID, params.ServiceLevel)
	if err != nil {
		return nil, err
	}

	base := card.BaseRate + params.WeightKg*card.PerKgRate + params.DistanceKm*card.PerKmRate
	for _, tag := range params.Surcharges {
		// Unknown surcharge tags are ignored: checkout callers send free-form tags.
		base += card.Surcharges[tag]
	}

	return applyMargin(card, round2(base)), nil
}

// CalculateFinalPrice applies the courier's margin configuration to a known
// base price.
func (e *RateCardEngine) CalculateFinalPrice(ctx context.Context, courierID, serviceType string, basePrice float64) (*domain.PriceBreakdown, error) {
	card, err := e.findCard(ctx, courierID, domain.ServiceLevel(serviceType))
	if err != nil {
		return nil, err
	}
	return applyMargin(card, round2(basePrice)), nil
}

func (e *RateCardEngine) findCard(ctx context.Context, courierID string, level domain.ServiceLevel) (*domain.RateCard, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var card domain.RateCard
	err := e.col.FindOne(ctx, bson.M{
		"courier_id":    courierID,
		"service_level": level,
	}).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoPricing
		}
		return nil, fmt.Errorf("rate card lookup: %w", err)
	}

	if !card.Enabled {
		msg := card.DisabledNote
		if msg == "" {
			msg = "pricing rule disabled for this courier/service"
		}
		return nil, &domain.PricingRuleError{
			Message: msg,
			Details: map[string]any{
				"error":         true,
				"message":       msg,
				"courier_id":    card.CourierID,
				"service_level": string(card.ServiceLevel),
			},
		}
	}

	return &card, nil
}

func applyMargin(card *domain.RateCard, base float64) *domain.PriceBreakdown {
	var marginAmount float64
	switch card.MarginType {
	case domain.MarginFixed:
		marginAmount = card.MarginValue
	default: // percentage
		marginAmount = base * card.MarginValue / 100
	}
	marginAmount = round2(marginAmount)

	final := round2(base + marginAmount)

	return &domain.PriceBreakdown{
		BasePrice:    base,
		MarginType:   card.MarginType,
		MarginValue:  card.MarginValue,
		MarginAmount: marginAmount,
		FinalPrice:   final,
		RoundedPrice: roundToStep(final, card.RoundingStep, card.RoundingDir),
		Currency:     card.Currency,
	}
}

// roundToStep snaps a price to the card's rounding step. A step of zero
// leaves the price untouched.
func roundToStep(price, step float64, dir domain.RoundingDirection) float64 {
	if step <= 0 {
		return price
	}
	units := price / step
	if dir == domain.RoundDown {
		return round2(math.Floor(units) * step)
	}
	return round2(math.Ceil(units) * step)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
