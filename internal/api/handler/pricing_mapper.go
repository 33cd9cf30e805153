package handler

import (
	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// --- Request → Service input ---

func toQuoteInput(req calculateShippingPriceRequest, merchantID string) ports.QuoteInput {
	return ports.QuoteInput{
		CourierID:    req.CourierID,
		ServiceLevel: req.ServiceLevel,
		WeightKg:     req.Weight,
		DistanceKm:   req.Distance,
		FromPostal:   req.FromPostal,
		ToPostal:     req.ToPostal,
		Surcharges:   req.Surcharges,
		MerchantID:   merchantID,
	}
}

// --- Service result → HTTP response ---

func toPricingResponse(b domain.PriceBreakdown, savings float64) pricingResponse {
	return pricingResponse{
		BasePrice:    b.BasePrice,
		MarginType:   string(b.MarginType),
		MarginValue:  b.MarginValue,
		MarginAmount: b.MarginAmount,
		FinalPrice:   b.FinalPrice,
		RoundedPrice: b.RoundedPrice,
		Savings:      savings,
		Currency:     b.Currency,
	}
}

func toQuoteResponse(r *ports.QuoteResult) calculateShippingPriceResponse {
	return calculateShippingPriceResponse{
		Success:    true,
		Pricing:    toPricingResponse(r.Pricing, r.Savings),
		ValidUntil: r.ValidUntil.UTC(),
	}
}

func toCalculateResponse(r *ports.MarginResult) calculatePriceResponse {
	return calculatePriceResponse{
		Success:     true,
		Calculation: toPricingResponse(r.Calculation, r.Savings),
	}
}

func toCouriersResponse(r *ports.ListCouriersResult) merchantCouriersResponse {
	couriers := make([]courierResponse, len(r.Couriers))
	for i, courier := range r.Couriers {
		couriers[i] = courierResponse{
			CourierID:        courier.CourierID,
			CourierName:      courier.CourierName,
			TrustScore:       courier.TrustScore,
			TotalReviews:     courier.TotalReviews,
			AvgDeliveryTime:  courier.AvgDeliveryTime,
			OnTimePercentage: courier.OnTimePercentage,
			Badge:            string(courier.Badge),
		}
	}
	return merchantCouriersResponse{
		Success:    true,
		Couriers:   couriers,
		TotalFound: r.TotalFound,
		Message:    r.Message,
	}
}
