package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// CourierHandler handles HTTP requests for merchant courier selections.
type CourierHandler struct {
	couriers ports.CourierService
	identity ports.IdentityService
}

func NewCourierHandler(couriers ports.CourierService, identity ports.IdentityService) *CourierHandler {
	return &CourierHandler{couriers: couriers, identity: identity}
}

// MerchantCouriers handles GET /v1/couriers/merchant-couriers.
//
// @Summary      List a merchant's configured couriers
// @Tags         couriers
// @Produce      json
// @Param        api_key      query     string  false  "API key (checkout fallback identity)"
// @Param        merchant_id  query     string  false  "Merchant id (public checkout fallback when no key or token is sent)"
// @Param        postal_code  query     string  false  "Postal code to scope the selection"
// @Param        limit        query     int     false  "Max couriers to return (default 20, cap 100)"
// @Success      200          {object}  merchantCouriersResponse
// @Failure      400          {object}  map[string]string
// @Failure      401          {object}  map[string]string
// @Failure      500          {object}  map[string]string
// @Router       /v1/couriers/merchant-couriers [get]
func (h *CourierHandler) MerchantCouriers(c echo.Context) error {
	merchantID, err := h.resolveMerchantScope(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	result, err := h.couriers.ListMerchantCouriers(c.Request().Context(), ports.ListCouriersInput{
		MerchantID: merchantID,
		PostalCode: c.QueryParam("postal_code"),
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCouriersResponse(result))
}

// resolveMerchantScope picks the merchant whose selection is listed. A
// verified credential always wins; a bare merchant_id query parameter is the
// public checkout fallback, valid only when no bearer token or API key is
// supplied at all. Only with every identity source absent is the request
// rejected.
func (h *CourierHandler) resolveMerchantScope(c echo.Context) (string, error) {
	bearer := bearerToken(c)
	key := apiKey(c, "")
	if bearer == "" && key == "" {
		if q := c.QueryParam("merchant_id"); q != "" {
			return q, nil
		}
		return "", domain.ErrMissingIdentity
	}

	ident, err := h.identity.Resolve(c.Request().Context(), bearer, key)
	if err != nil {
		return "", err
	}

	// Admins may look up any merchant via the merchant_id query parameter;
	// everyone else is pinned to their own subject.
	if ident.Role == domain.RoleAdmin {
		if q := c.QueryParam("merchant_id"); q != "" {
			return q, nil
		}
	}
	return ident.SubjectID, nil
}
