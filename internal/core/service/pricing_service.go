package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// quoteTTL time-boxes shipping quotes: callers must not treat them as permanent.
const quoteTTL = 24 * time.Hour

type PricingService struct {
	engine  ports.PricingEngine
	ranking ports.RankingService
	logger  zerolog.Logger
	now     func() time.Time
}

func NewPricingService(engine ports.PricingEngine, ranking ports.RankingService, logger zerolog.Logger) *PricingService {
	return &PricingService{
		engine:  engine,
		ranking: ranking,
		logger:  logger,
		now:     time.Now,
	}
}

// QuoteShipping prices a shipment for checkout. The engine is called exactly
// once; there are no retries, so a quote can never be computed twice with
// different inputs. On success a ranking recompute is submitted best-effort
// for the quoted courier and destination postal code.
func (s *PricingService) QuoteShipping(ctx context.Context, input ports.QuoteInput) (*ports.QuoteResult, error) {
	params := domain.QuoteParams{
		CourierID:    input.CourierID,
		ServiceLevel: domain.ServiceLevel(input.ServiceLevel),
		WeightKg:     input.WeightKg,
		DistanceKm:   input.DistanceKm,
		FromPostal:   derefOrEmpty(domain.NormalizePostalCode(input.FromPostal)),
		ToPostal:     derefOrEmpty(domain.NormalizePostalCode(input.ToPostal)),
		Surcharges:   input.Surcharges,
		MerchantID:   input.MerchantID,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	breakdown, err := s.engine.CalculateShippingPrice(ctx, params)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("courier_id", params.CourierID).
			Str("service_level", string(params.ServiceLevel)).
			Msg("shipping price calculation failed")
		return nil, err
	}

	s.logger.Info().
		Str("courier_id", params.CourierID).
		Str("service_level", string(params.ServiceLevel)).
		Float64("rounded_price", breakdown.RoundedPrice).
		Msg("shipping price quoted")

	// Best-effort: the response never waits on ranking freshness.
	s.ranking.Update(ctx, ports.RankingUpdateInput{
		CourierIDs: []string{params.CourierID},
		PostalCode: input.ToPostal,
		Context:    "shipping_quote",
	})

	return &ports.QuoteResult{
		Pricing:    *breakdown,
		Savings:    breakdown.Savings(),
		ValidUntil: s.now().UTC().Add(quoteTTL),
	}, nil
}

// CalculateMargin applies the configured merchant margin to a known base
// price. Bearer-token-gated; the merchant id comes from the verified token.
func (s *PricingService) CalculateMargin(ctx context.Context, input ports.MarginInput) (*ports.MarginResult, error) {
	if input.CourierID == "" {
		return nil, fmt.Errorf("%w: courier_id is required", domain.ErrInvalidQuote)
	}
	if !domain.ServiceLevel(input.ServiceType).Valid() {
		return nil, fmt.Errorf("%w: service_type must be one of: standard express same_day", domain.ErrInvalidQuote)
	}
	if input.BasePrice <= 0 {
		return nil, fmt.Errorf("%w: base_price must be greater than 0", domain.ErrInvalidQuote)
	}

	breakdown, err := s.engine.CalculateFinalPrice(ctx, input.CourierID, input.ServiceType, input.BasePrice)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("courier_id", input.CourierID).
			Str("service_type", input.ServiceType).
			Msg("margin calculation failed")
		return nil, err
	}

	return &ports.MarginResult{
		Calculation: *breakdown,
		Savings:     breakdown.Savings(),
	}, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
