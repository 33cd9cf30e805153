package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubEngine struct {
	calls      int
	lastParams domain.QuoteParams
	breakdown  *domain.PriceBreakdown
	err        error
}

func (e *stubEngine) CalculateShippingPrice(_ context.Context, params domain.QuoteParams) (*domain.PriceBreakdown, error) {
	e.calls++
	e.lastParams = params
	if e.err != nil {
		return nil, e.err
	}
	return e.breakdown, nil
}

func (e *stubEngine) CalculateFinalPrice(_ context.Context, _, _ string, _ float64) (*domain.PriceBreakdown, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.breakdown, nil
}

type stubRanking struct {
	updates []ports.RankingUpdateInput
}

func (r *stubRanking) Update(_ context.Context, input ports.RankingUpdateInput) {
	r.updates = append(r.updates, input)
}

var discardLogger = zerolog.Nop()

func validQuoteInput() ports.QuoteInput {
	return ports.QuoteInput{
		CourierID:    "courier_1",
		ServiceLevel: "standard",
		WeightKg:     2.5,
		DistanceKm:   12,
		FromPostal:   "11122",
		ToPostal:     "  se-123 ",
	}
}

func defaultBreakdown() *domain.PriceBreakdown {
	return &domain.PriceBreakdown{
		BasePrice:    100,
		MarginType:   domain.MarginPercentage,
		MarginValue:  10,
		MarginAmount: 10,
		FinalPrice:   110,
		RoundedPrice: 109.5,
		Currency:     "SEK",
	}
}

// ---------------------------------------------------------------------------
// QuoteShipping
// ---------------------------------------------------------------------------

func TestPricingService_Quote_Success(t *testing.T) {
	engine := &stubEngine{breakdown: defaultBreakdown()}
	ranking := &stubRanking{}
	svc := NewPricingService(engine, ranking, discardLogger)

	result, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if engine.calls != 1 {
		t.Errorf("engine must be called exactly once, got %d", engine.calls)
	}
	if result.Pricing.RoundedPrice != 109.5 {
		t.Errorf("rounded price: want 109.5, got %v", result.Pricing.RoundedPrice)
	}
}

func TestPricingService_Quote_NormalizesPostalCodes(t *testing.T) {
	engine := &stubEngine{breakdown: defaultBreakdown()}
	svc := NewPricingService(engine, &stubRanking{}, discardLogger)

	_, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.lastParams.ToPostal != "SE-123" {
		t.Errorf("to_postal must be normalized, got %q", engine.lastParams.ToPostal)
	}
}

func TestPricingService_Quote_InvalidInput_NoEngineCall(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.QuoteInput)
	}{
		{"zero weight", func(q *ports.QuoteInput) { q.WeightKg = 0 }},
		{"negative weight", func(q *ports.QuoteInput) { q.WeightKg = -2 }},
		{"negative distance", func(q *ports.QuoteInput) { q.DistanceKm = -1 }},
		{"unknown service level", func(q *ports.QuoteInput) { q.ServiceLevel = "overnight" }},
		{"missing courier", func(q *ports.QuoteInput) { q.CourierID = "" }},
		{"blank from postal", func(q *ports.QuoteInput) { q.FromPostal = "   " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{breakdown: defaultBreakdown()}
			ranking := &stubRanking{}
			svc := NewPricingService(engine, ranking, discardLogger)

			input := validQuoteInput()
			tc.mutate(&input)

			_, err := svc.QuoteShipping(context.Background(), input)
			if !errors.Is(err, domain.ErrInvalidQuote) {
				t.Fatalf("expected ErrInvalidQuote, got %v", err)
			}
			if engine.calls != 0 {
				t.Errorf("validation failures must short-circuit before the engine, got %d calls", engine.calls)
			}
			if len(ranking.updates) != 0 {
				t.Error("no ranking update must be submitted on validation failure")
			}
		})
	}
}

func TestPricingService_Quote_SavingsNeverNegative(t *testing.T) {
	b := defaultBreakdown()
	b.RoundedPrice = 120 // rounded up past base
	svc := NewPricingService(&stubEngine{breakdown: b}, &stubRanking{}, discardLogger)

	result, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Savings != 0 {
		t.Errorf("savings must be clamped at 0, got %v", result.Savings)
	}
}

func TestPricingService_Quote_ValidUntil24h(t *testing.T) {
	svc := NewPricingService(&stubEngine{breakdown: defaultBreakdown()}, &stubRanking{}, discardLogger)
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return ref }

	result, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := ref.Add(24 * time.Hour); !result.ValidUntil.Equal(want) {
		t.Errorf("valid_until: want %v, got %v", want, result.ValidUntil)
	}
}

func TestPricingService_Quote_NoPricing(t *testing.T) {
	svc := NewPricingService(&stubEngine{err: domain.ErrNoPricing}, &stubRanking{}, discardLogger)

	_, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if !errors.Is(err, domain.ErrNoPricing) {
		t.Fatalf("expected ErrNoPricing, got %v", err)
	}
}

func TestPricingService_Quote_RuleError(t *testing.T) {
	ruleErr := &domain.PricingRuleError{
		Message: "Rate card missing",
		Details: map[string]any{"error": true, "message": "Rate card missing"},
	}
	ranking := &stubRanking{}
	svc := NewPricingService(&stubEngine{err: ruleErr}, ranking, discardLogger)

	_, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	var got *domain.PricingRuleError
	if !errors.As(err, &got) {
		t.Fatalf("expected PricingRuleError, got %v", err)
	}
	if got.Message != "Rate card missing" {
		t.Errorf("message: want %q, got %q", "Rate card missing", got.Message)
	}
	if len(ranking.updates) != 0 {
		t.Error("failed quotes must not trigger ranking updates")
	}
}

func TestPricingService_Quote_TriggersRankingUpdate(t *testing.T) {
	ranking := &stubRanking{}
	svc := NewPricingService(&stubEngine{breakdown: defaultBreakdown()}, ranking, discardLogger)

	_, err := svc.QuoteShipping(context.Background(), validQuoteInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ranking.updates) != 1 {
		t.Fatalf("expected 1 ranking update, got %d", len(ranking.updates))
	}
	update := ranking.updates[0]
	if len(update.CourierIDs) != 1 || update.CourierIDs[0] != "courier_1" {
		t.Errorf("ranking update must target the quoted courier, got %v", update.CourierIDs)
	}
	if update.Context != "shipping_quote" {
		t.Errorf("context label: want %q, got %q", "shipping_quote", update.Context)
	}
}

// ---------------------------------------------------------------------------
// CalculateMargin
// ---------------------------------------------------------------------------

func TestPricingService_Margin_Success(t *testing.T) {
	svc := NewPricingService(&stubEngine{breakdown: defaultBreakdown()}, &stubRanking{}, discardLogger)

	result, err := svc.CalculateMargin(context.Background(), ports.MarginInput{
		CourierID:   "courier_1",
		ServiceType: "express",
		BasePrice:   100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Calculation.FinalPrice != 110 {
		t.Errorf("final price: want 110, got %v", result.Calculation.FinalPrice)
	}
	if result.Savings != 0.5 {
		t.Errorf("savings: want 0.5, got %v", result.Savings)
	}
}

func TestPricingService_Margin_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		input ports.MarginInput
	}{
		{"missing courier", ports.MarginInput{ServiceType: "standard", BasePrice: 10}},
		{"bad service type", ports.MarginInput{CourierID: "c1", ServiceType: "priority", BasePrice: 10}},
		{"zero base price", ports.MarginInput{CourierID: "c1", ServiceType: "standard"}},
		{"negative base price", ports.MarginInput{CourierID: "c1", ServiceType: "standard", BasePrice: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{breakdown: defaultBreakdown()}
			svc := NewPricingService(engine, &stubRanking{}, discardLogger)

			_, err := svc.CalculateMargin(context.Background(), tc.input)
			if !errors.Is(err, domain.ErrInvalidQuote) {
				t.Fatalf("expected ErrInvalidQuote, got %v", err)
			}
			if engine.calls != 0 {
				t.Error("invalid input must not reach the engine")
			}
		})
	}
}
