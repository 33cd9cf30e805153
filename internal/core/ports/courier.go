package ports

import (
	"context"

	"github.com/performile/courier-platform/internal/core/domain"
)

// ListCouriersInput carries the parameters for the merchant-couriers lookup.
type ListCouriersInput struct {
	MerchantID string
	PostalCode string
	Limit      int
}

// ListCouriersResult is the shaped courier selection for a merchant. An empty
// selection is not an error: Message explains why the list is empty so the
// checkout flow can proceed.
type ListCouriersResult struct {
	Couriers   []domain.Courier
	TotalFound int
	Message    string
}

// CourierService defines courier selection use cases.
type CourierService interface {
	ListMerchantCouriers(ctx context.Context, input ListCouriersInput) (*ListCouriersResult, error)
}

// CourierRepository defines persistence for merchant courier selections.
type CourierRepository interface {
	// ListForMerchant returns the merchant's configured couriers ordered by
	// rank, optionally scoped to a postal code, capped at limit rows.
	ListForMerchant(ctx context.Context, merchantID, postalCode string, limit int) ([]domain.MerchantCourierRow, error)
}
