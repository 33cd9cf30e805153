package handler

import "time"

// --- Request types ---

type calculateShippingPriceRequest struct {
	CourierID    string   `json:"courier_id"    validate:"required"`
	ServiceLevel string   `json:"service_level" validate:"required,oneof=standard express same_day"`
	Weight       float64  `json:"weight"        validate:"required,gt=0"`
	Distance     float64  `json:"distance"      validate:"gte=0"`
	FromPostal   string   `json:"from_postal"   validate:"required"`
	ToPostal     string   `json:"to_postal"     validate:"required"`
	Surcharges   []string `json:"surcharges,omitempty"`
	// APIKey is the fallback identity source for checkout-style calls
	// without a bearer token. Ignored when a verified token is present.
	APIKey string `json:"api_key,omitempty"`
}

type calculatePriceRequest struct {
	CourierID   string  `json:"courier_id"   validate:"required"`
	ServiceType string  `json:"service_type" validate:"required,oneof=standard express same_day"`
	BasePrice   float64 `json:"base_price"   validate:"required,gt=0"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type pricingResponse struct {
	BasePrice    float64 `json:"base_price"`
	MarginType   string  `json:"margin_type"`
	MarginValue  float64 `json:"margin_value"`
	MarginAmount float64 `json:"margin_amount"`
	FinalPrice   float64 `json:"final_price"`
	RoundedPrice float64 `json:"rounded_price"`
	Savings      float64 `json:"savings"`
	Currency     string  `json:"currency,omitempty"`
}

type calculateShippingPriceResponse struct {
	Success    bool            `json:"success"`
	Pricing    pricingResponse `json:"pricing"`
	ValidUntil time.Time       `json:"valid_until"`
}

type calculatePriceResponse struct {
	Success     bool            `json:"success"`
	Calculation pricingResponse `json:"calculation"`
}

type courierResponse struct {
	CourierID        string  `json:"courier_id"`
	CourierName      string  `json:"courier_name"`
	TrustScore       float64 `json:"trust_score"`
	TotalReviews     int     `json:"total_reviews"`
	AvgDeliveryTime  float64 `json:"avg_delivery_time"`
	OnTimePercentage float64 `json:"on_time_percentage"`
	Badge            string  `json:"badge"`
}

type merchantCouriersResponse struct {
	Success    bool              `json:"success"`
	Couriers   []courierResponse `json:"couriers"`
	TotalFound int               `json:"total_found"`
	Message    string            `json:"message,omitempty"`
}
