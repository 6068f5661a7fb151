package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
	"github.com/AZ-BB/dutch-spinner/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for the coupon inventory using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new unused coupon into the inventory.
// Returns service.ErrCodeExists if the code is already present.
func (r *CouponRepository) Insert(ctx context.Context, code string, prizeType model.PrizeType, displayName string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (code, type, name) VALUES ($1, $2, $3)`,
		code, prizeType, displayName)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrCodeExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByID retrieves a coupon by id. Usable inside or outside a transaction.
// Returns service.ErrCouponNotFound if no such coupon exists.
func (r *CouponRepository) GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.Coupon, error) {
	query := `SELECT id, code, type, name, used, used_at, created_at FROM coupons WHERE id = $1`

	var coupon model.Coupon
	err := q.QueryRow(ctx, query, id).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Name,
		&coupon.Used,
		&coupon.UsedAt,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon %d: %w", id, err)
	}
	return &coupon, nil
}

// List returns coupons matching the filter, newest import first.
func (r *CouponRepository) List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	query := `SELECT id, code, type, name, used, used_at, created_at FROM coupons`
	var (
		conds []string
		args  []any
	)
	if filter.Used != nil {
		args = append(args, *filter.Used)
		conds = append(conds, fmt.Sprintf("used = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Type, &c.Name, &c.Used, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// TypesWithStock returns the distinct prize types that still have at least
// one unused coupon. Accepts a TxQuerier so the allocation transaction sees
// its own snapshot.
func (r *CouponRepository) TypesWithStock(ctx context.Context, q database.TxQuerier) ([]model.PrizeType, error) {
	rows, err := q.Query(ctx, `SELECT DISTINCT type FROM coupons WHERE NOT used`)
	if err != nil {
		return nil, fmt.Errorf("query types with stock: %w", err)
	}
	defer rows.Close()

	var types []model.PrizeType
	for rows.Next() {
		var t model.PrizeType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan prize type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type rows: %w", err)
	}
	return types, nil
}

// ClaimOldest atomically marks the earliest-imported unused coupon of the
// given type as used and returns it. The claim is a single conditional
// update: the inner SELECT locks the row (SKIP LOCKED sidesteps rows held
// by concurrent claimers) so two transactions can never flip the same
// coupon. Returns nil, nil when the type has no claimable coupon left.
func (r *CouponRepository) ClaimOldest(ctx context.Context, tx database.TxQuerier, prizeType model.PrizeType) (*model.Coupon, error) {
	query := `
		UPDATE coupons SET used = TRUE, used_at = now()
		WHERE id = (
			SELECT id FROM coupons
			WHERE type = $1 AND NOT used
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, code, type, name, used, used_at, created_at`

	var coupon model.Coupon
	err := tx.QueryRow(ctx, query, prizeType).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Name,
		&coupon.Used,
		&coupon.UsedAt,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // type drained, caller redraws
		}
		return nil, fmt.Errorf("claim coupon of type %s: %w", prizeType, err)
	}
	return &coupon, nil
}

// DeleteUnused deletes a coupon only while it is unused. The guard is part
// of the DELETE itself so a concurrent allocation that flips the used flag
// cannot be bypassed by a stale read.
// Returns service.ErrCouponUsed when the coupon exists but was redeemed,
// service.ErrCouponNotFound when it does not exist.
func (r *CouponRepository) DeleteUnused(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing deleted: distinguish missing from redeemed.
	var used bool
	err = r.pool.QueryRow(ctx, `SELECT used FROM coupons WHERE id = $1`, id).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrCouponNotFound
		}
		return fmt.Errorf("check coupon %d after delete: %w", id, err)
	}
	if used {
		return service.ErrCouponUsed
	}
	return service.ErrCouponNotFound
}
