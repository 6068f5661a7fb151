package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/pkg/database"
)

// InventoryService manages the coupon inventory: import, listing, the
// available-prize projection, and guarded deletion.
type InventoryService struct {
	pool       database.TxQuerier
	couponRepo CouponRepositoryInterface
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(pool *pgxpool.Pool, couponRepo CouponRepositoryInterface) *InventoryService {
	return &InventoryService{pool: pool, couponRepo: couponRepo}
}

// NewInventoryServiceWithQuerier creates an InventoryService with a custom
// querier. Primarily used for testing.
func NewInventoryServiceWithQuerier(pool database.TxQuerier, couponRepo CouponRepositoryInterface) *InventoryService {
	return &InventoryService{pool: pool, couponRepo: couponRepo}
}

// ImportCodes inserts each candidate code as an unused coupon of the given
// type. Each code is an independent attempt: duplicates are counted and
// collected, other per-code failures land in the errors list, and the batch
// always runs to the end. Whitespace-only candidates are dropped.
func (s *InventoryService) ImportCodes(ctx context.Context, prizeType model.PrizeType, codes []string) (*model.ImportResult, error) {
	if !prizeType.Valid() || len(codes) == 0 {
		return nil, ErrInvalidRequest
	}

	displayName := prizeType.DisplayName()
	result := &model.ImportResult{
		Duplicates: []string{},
		Errors:     []string{},
	}

	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		err := s.couponRepo.Insert(ctx, code, prizeType, displayName)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, ErrCodeExists):
			result.Skipped++
			result.Duplicates = append(result.Duplicates, code)
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import %s: %v", code, err))
		}
	}

	return result, nil
}

// ListCoupons returns the inventory filtered by used-state and/or prize
// type, newest import first.
func (s *InventoryService) ListCoupons(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, ErrInvalidRequest
	}
	return s.couponRepo.List(ctx, filter)
}

// AvailablePrizeTypes returns the prize types that currently have at least
// one unused coupon, in canonical enum order.
func (s *InventoryService) AvailablePrizeTypes(ctx context.Context) ([]model.PrizeTypeInfo, error) {
	types, err := s.couponRepo.TypesWithStock(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	sortCanonical(types)

	infos := make([]model.PrizeTypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, model.PrizeTypeInfo{Type: t, DisplayName: t.DisplayName()})
	}
	return infos, nil
}

// DeleteCoupon removes an unused coupon from the inventory. A redeemed
// coupon is part of the historical record and is never deleted.
// Returns ErrCouponNotFound or ErrCouponUsed accordingly.
func (s *InventoryService) DeleteCoupon(ctx context.Context, id int64) error {
	return s.couponRepo.DeleteUnused(ctx, id)
}
