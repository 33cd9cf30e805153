package ports

import (
	"context"
	"time"

	"github.com/performile/courier-platform/internal/core/domain"
)

// QuoteInput carries all data needed to price a shipment for checkout.
type QuoteInput struct {
	CourierID    string
	ServiceLevel string
	WeightKg     float64
	DistanceKm   float64
	FromPostal   string
	ToPostal     string
	Surcharges   []string
	// MerchantID is the resolved caller identity (never client-supplied when
	// a verified token is available).
	MerchantID string
}

// QuoteResult is the shaped response for a shipping price quote.
type QuoteResult struct {
	Pricing domain.PriceBreakdown
	Savings float64
	// ValidUntil is 24 hours after invocation; quotes are time-boxed.
	ValidUntil time.Time
}

// MarginInput carries the parameters for a merchant-side margin calculation
// over a known base price.
type MarginInput struct {
	CourierID   string
	ServiceType string
	BasePrice   float64
	MerchantID  string
}

// MarginResult mirrors the merchant calculate-price contract.
type MarginResult struct {
	Calculation domain.PriceBreakdown
	Savings     float64
}

// PricingService defines the pricing use cases.
type PricingService interface {
	QuoteShipping(ctx context.Context, input QuoteInput) (*QuoteResult, error)
	CalculateMargin(ctx context.Context, input MarginInput) (*MarginResult, error)
}

// PricingEngine is the external pricing computation. Implementations must be
// called exactly once per request (no retries: pricing must never be computed
// twice with different inputs for one quote).
//
// Outcome shapes:
//   - (nil, domain.ErrNoPricing): no rate row exists for the courier/service.
//   - (nil, *domain.PricingRuleError): the backend produced a row that itself
//     encodes a business-rule failure; the raw row rides in Details.
//   - (breakdown, nil): a normal priced row.
type PricingEngine interface {
	CalculateShippingPrice(ctx context.Context, params domain.QuoteParams) (*domain.PriceBreakdown, error)
	CalculateFinalPrice(ctx context.Context, courierID, serviceType string, basePrice float64) (*domain.PriceBreakdown, error)
}
