package service

import (
	"context"
	"errors"
	"testing"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

type stubCourierRepo struct {
	rows       []domain.MerchantCourierRow
	err        error
	lastPostal string
	lastLimit  int
}

func (r *stubCourierRepo) ListForMerchant(_ context.Context, _, postalCode string, limit int) ([]domain.MerchantCourierRow, error) {
	r.lastPostal = postalCode
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

func courierRow(id string, trust string) domain.MerchantCourierRow {
	return domain.MerchantCourierRow{
		MerchantID:       "merchant_1",
		CourierID:        id,
		CourierName:      "Courier " + id,
		TrustScore:       trust,
		TotalReviews:     42,
		AvgDeliveryTime:  "36.5",
		OnTimePercentage: "94.2",
	}
}

func TestCourierService_List_ShapesRows(t *testing.T) {
	repo := &stubCourierRepo{rows: []domain.MerchantCourierRow{
		courierRow("c1", "4.7"),
		courierRow("c2", "4.2"),
		courierRow("c3", "3.6"),
		courierRow("c4", "2.9"),
	}}
	svc := NewCourierService(repo, discardLogger)

	result, err := svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "merchant_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalFound != 4 {
		t.Fatalf("total_found: want 4, got %d", result.TotalFound)
	}

	wantBadges := []domain.Badge{domain.BadgeExcellent, domain.BadgeVeryGood, domain.BadgeGood, domain.BadgeAverage}
	for i, want := range wantBadges {
		if result.Couriers[i].Badge != want {
			t.Errorf("courier %d badge: want %q, got %q", i, want, result.Couriers[i].Badge)
		}
	}
	if result.Couriers[0].TrustScore != 4.7 {
		t.Errorf("trust_score must be coerced to a number, got %v", result.Couriers[0].TrustScore)
	}
	if result.Couriers[0].OnTimePercentage != 94.2 {
		t.Errorf("on_time_percentage must be coerced, got %v", result.Couriers[0].OnTimePercentage)
	}
}

func TestCourierService_List_EmptyIsNotAnError(t *testing.T) {
	svc := NewCourierService(&stubCourierRepo{}, discardLogger)

	result, err := svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "merchant_1"})
	if err != nil {
		t.Fatalf("empty selection must not be an error: %v", err)
	}
	if result.Couriers == nil || len(result.Couriers) != 0 {
		t.Errorf("want empty slice, got %v", result.Couriers)
	}
	if result.TotalFound != 0 {
		t.Errorf("total_found: want 0, got %d", result.TotalFound)
	}
	if result.Message == "" {
		t.Error("empty selection must carry a guidance message")
	}
}

func TestCourierService_List_CoercionFailure(t *testing.T) {
	repo := &stubCourierRepo{rows: []domain.MerchantCourierRow{courierRow("c1", "not-a-number")}}
	svc := NewCourierService(repo, discardLogger)

	_, err := svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "merchant_1"})
	if err == nil {
		t.Fatal("malformed numeric string must be an error, not a silent zero")
	}
}

func TestCourierService_List_RepoError(t *testing.T) {
	repo := &stubCourierRepo{err: errors.New("db unavailable")}
	svc := NewCourierService(repo, discardLogger)

	_, err := svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "merchant_1"})
	if err == nil {
		t.Fatal("expected error when repo fails")
	}
}

func TestCourierService_List_LimitHandling(t *testing.T) {
	repo := &stubCourierRepo{}
	svc := NewCourierService(repo, discardLogger)

	_, _ = svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "m1"})
	if repo.lastLimit != defaultCourierLimit {
		t.Errorf("default limit: want %d, got %d", defaultCourierLimit, repo.lastLimit)
	}

	_, _ = svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{MerchantID: "m1", Limit: 500})
	if repo.lastLimit != maxCourierLimit {
		t.Errorf("limit cap: want %d, got %d", maxCourierLimit, repo.lastLimit)
	}
}

func TestCourierService_List_NormalizesPostalCode(t *testing.T) {
	repo := &stubCourierRepo{}
	svc := NewCourierService(repo, discardLogger)

	_, _ = svc.ListMerchantCouriers(context.Background(), ports.ListCouriersInput{
		MerchantID: "m1",
		PostalCode: " se-123 ",
	})
	if repo.lastPostal != "SE-123" {
		t.Errorf("postal code must be normalized before the repo call, got %q", repo.lastPostal)
	}
}
