package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

const (
	defaultCourierLimit = 20
	maxCourierLimit     = 100
)

type CourierService struct {
	repo   ports.CourierRepository
	logger zerolog.Logger
}

func NewCourierService(repo ports.CourierRepository, logger zerolog.Logger) *CourierService {
	return &CourierService{repo: repo, logger: logger}
}

// ListMerchantCouriers returns the merchant's ranked courier selection,
// shaped for the public contract. An empty selection is a 200 with a
// guidance message, never a 404: checkout must be able to proceed without
// couriers configured.
func (s *CourierService) ListMerchantCouriers(ctx context.Context, input ports.ListCouriersInput) (*ports.ListCouriersResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultCourierLimit
	}
	if limit > maxCourierLimit {
		limit = maxCourierLimit
	}

	postal := derefOrEmpty(domain.NormalizePostalCode(input.PostalCode))

	rows, err := s.repo.ListForMerchant(ctx, input.MerchantID, postal, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("merchant_id", input.MerchantID).Msg("failed to list merchant couriers")
		return nil, err
	}

	if len(rows) == 0 {
		return &ports.ListCouriersResult{
			Couriers:   []domain.Courier{},
			TotalFound: 0,
			Message:    "No couriers configured for this merchant yet. Add couriers in the merchant settings to enable checkout options.",
		}, nil
	}

	couriers := make([]domain.Courier, len(rows))
	for i, row := range rows {
		courier, err := shapeCourier(row)
		if err != nil {
			s.logger.Error().Err(err).Str("courier_id", row.CourierID).Msg("failed to shape courier row")
			return nil, err
		}
		couriers[i] = courier
	}

	return &ports.ListCouriersResult{
		Couriers:   couriers,
		TotalFound: len(couriers),
		Message:    fmt.Sprintf("Found %d couriers", len(couriers)),
	}, nil
}

// shapeCourier coerces the store's decimal-string fields and derives the
// badge. The badge is recomputed here on every read; it is never stored.
func shapeCourier(row domain.MerchantCourierRow) (domain.Courier, error) {
	trust, err := coerceFloat("trust_score", row.TrustScore)
	if err != nil {
		return domain.Courier{}, err
	}
	avgDelivery, err := coerceFloat("avg_delivery_time", row.AvgDeliveryTime)
	if err != nil {
		return domain.Courier{}, err
	}
	onTime, err := coerceFloat("on_time_percentage", row.OnTimePercentage)
	if err != nil {
		return domain.Courier{}, err
	}

	return domain.Courier{
		CourierID:        row.CourierID,
		CourierName:      row.CourierName,
		TrustScore:       trust,
		TotalReviews:     row.TotalReviews,
		AvgDeliveryTime:  avgDelivery,
		OnTimePercentage: onTime,
		Badge:            domain.BadgeForTrustScore(trust),
	}, nil
}

// coerceFloat parses a decimal-string field. A malformed value is an
// internal error, never a silent zero.
func coerceFloat(field, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("coerce %s %q: %w", field, raw, err)
	}
	return v, nil
}
