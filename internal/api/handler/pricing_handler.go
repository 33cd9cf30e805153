package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/performile/courier-platform/internal/api/metrics"
	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// PricingHandler handles HTTP requests for price calculations.
type PricingHandler struct {
	pricing  ports.PricingService
	identity ports.IdentityService
}

func NewPricingHandler(pricing ports.PricingService, identity ports.IdentityService) *PricingHandler {
	return &PricingHandler{pricing: pricing, identity: identity}
}

// CalculateShippingPrice handles POST /v1/couriers/calculate-shipping-price.
//
// @Summary      Calculate a shipping price quote
// @Tags         couriers
// @Accept       json
// @Produce      json
// @Param        body  body      calculateShippingPriceRequest  true  "Quote parameters"
// @Success      200   {object}  calculateShippingPriceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/couriers/calculate-shipping-price [post]
func (h *PricingHandler) CalculateShippingPrice(c echo.Context) error {
	start := time.Now()

	var req calculateShippingPriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.QuotesTotal.WithLabelValues(req.ServiceLevel, "validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Identity gates the engine call: bearer token when present, API key as
	// the checkout fallback. Client-supplied merchant ids are never trusted
	// when a token verifies.
	ident, err := h.identity.Resolve(c.Request().Context(), bearerToken(c), apiKey(c, req.APIKey))
	if err != nil {
		return err
	}

	merchantID := ""
	if ident.Role == domain.RoleMerchant {
		merchantID = ident.SubjectID
	}

	result, err := h.pricing.QuoteShipping(c.Request().Context(), toQuoteInput(req, merchantID))
	outcome := quoteOutcome(err)
	metrics.QuotesTotal.WithLabelValues(req.ServiceLevel, outcome).Inc()
	metrics.QuoteDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toQuoteResponse(result))
}

// CalculatePrice handles POST /v1/merchant/calculate-price.
//
// @Summary      Apply merchant margin to a base price
// @Tags         merchant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      calculatePriceRequest  true  "Calculation parameters"
// @Success      200   {object}  calculatePriceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/merchant/calculate-price [post]
func (h *PricingHandler) CalculatePrice(c echo.Context) error {
	var req calculatePriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, subjectID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.pricing.CalculateMargin(c.Request().Context(), ports.MarginInput{
		CourierID:   req.CourierID,
		ServiceType: req.ServiceType,
		BasePrice:   req.BasePrice,
		MerchantID:  subjectID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCalculateResponse(result))
}

// bearerToken extracts the raw token from the Authorization header, or ""
// when no well-formed bearer header is present.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// apiKey resolves the API key from the body, the X-API-Key header, or the
// query string, in that order.
func apiKey(c echo.Context, bodyKey string) string {
	if bodyKey != "" {
		return bodyKey
	}
	if k := c.Request().Header.Get("X-API-Key"); k != "" {
		return k
	}
	return c.QueryParam("api_key")
}

func quoteOutcome(err error) string {
	var ruleErr *domain.PricingRuleError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuote):
		return "validation"
	case errors.Is(err, domain.ErrNoPricing):
		return "no_pricing"
	case errors.As(err, &ruleErr):
		return "rule_error"
	default:
		return "error"
	}
}
