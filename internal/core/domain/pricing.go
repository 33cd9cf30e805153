package domain

import (
	"errors"
	"fmt"
)

// ServiceLevel enumerates the delivery speeds a courier can be priced for.
type ServiceLevel string

const (
	ServiceStandard ServiceLevel = "standard"
	ServiceExpress  ServiceLevel = "express"
	ServiceSameDay  ServiceLevel = "same_day"
)

// Valid reports whether the service level is one of the supported values.
func (s ServiceLevel) Valid() bool {
	switch s {
	case ServiceStandard, ServiceExpress, ServiceSameDay:
		return true
	}
	return false
}

// MarginType describes how a merchant margin is applied on top of a base price.
type MarginType string

const (
	MarginPercentage MarginType = "percentage"
	MarginFixed      MarginType = "fixed"
)

// RoundingDirection controls which way the final price is rounded.
type RoundingDirection string

const (
	RoundUp   RoundingDirection = "up"
	RoundDown RoundingDirection = "down"
)

var (
	ErrNoPricing         = errors.New("no pricing found for this courier/service")
	ErrInvalidQuote      = errors.New("invalid quote parameters")
	ErrCourierNotFound   = errors.New("courier not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMissingIdentity   = errors.New("merchant_id or api_key is required")
)

// PricingRuleError is returned when the pricing backend produced a row, but
// the row itself encodes a business-rule failure (e.g. a rate card that is
// explicitly disabled). The raw row is carried in Details for diagnostics.
type PricingRuleError struct {
	Message string
	Details map[string]any
}

func (e *PricingRuleError) Error() string {
	return e.Message
}

// QuoteParams are the normalized inputs for a shipping price calculation.
type QuoteParams struct {
	CourierID    string
	ServiceLevel ServiceLevel
	WeightKg     float64
	DistanceKm   float64
	FromPostal   string
	ToPostal     string
	Surcharges   []string
	// MerchantID scopes the lookup when the caller's identity resolved to a
	// merchant; empty for admin-scoped calls.
	MerchantID string
}

// Validate enforces the quote invariants. Handlers validate the raw request
// body as well; this guard keeps the rules true for non-HTTP callers.
func (q QuoteParams) Validate() error {
	if q.CourierID == "" {
		return fmt.Errorf("%w: courier_id is required", ErrInvalidQuote)
	}
	if !q.ServiceLevel.Valid() {
		return fmt.Errorf("%w: service_level must be one of: standard express same_day", ErrInvalidQuote)
	}
	if q.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be greater than 0", ErrInvalidQuote)
	}
	if q.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must not be negative", ErrInvalidQuote)
	}
	if q.FromPostal == "" {
		return fmt.Errorf("%w: from_postal is required", ErrInvalidQuote)
	}
	if q.ToPostal == "" {
		return fmt.Errorf("%w: to_postal is required", ErrInvalidQuote)
	}
	return nil
}

// PriceBreakdown is the result of one pricing computation. Ephemeral: it is
// returned to the caller and never persisted by this layer.
type PriceBreakdown struct {
	BasePrice    float64
	MarginType   MarginType
	MarginValue  float64
	MarginAmount float64
	FinalPrice   float64
	RoundedPrice float64
	Currency     string
}

// Savings reports how much rounding reduced the price below base. Never
// negative: rounding up yields zero savings.
func (p PriceBreakdown) Savings() float64 {
	if s := p.BasePrice - p.RoundedPrice; s > 0 {
		return s
	}
	return 0
}

// RateCard is a courier's pricing configuration for one service level.
type RateCard struct {
	ID           string             `bson:"_id,omitempty"`
	CourierID    string             `bson:"courier_id"`
	ServiceLevel ServiceLevel       `bson:"service_level"`
	BaseRate     float64            `bson:"base_rate"`
	PerKgRate    float64            `bson:"per_kg_rate"`
	PerKmRate    float64            `bson:"per_km_rate"`
	Surcharges   map[string]float64 `bson:"surcharges,omitempty"`
	MarginType   MarginType         `bson:"margin_type"`
	MarginValue  float64            `bson:"margin_value"`
	RoundingStep float64            `bson:"rounding_step"`
	RoundingDir  RoundingDirection  `bson:"rounding_dir"`
	Currency     string             `bson:"currency"`
	Enabled      bool               `bson:"enabled"`
	DisabledNote string             `bson:"disabled_note,omitempty"`
}
