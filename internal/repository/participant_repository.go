package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/internal/service"
	"github.com/AZ-BB/dutch-spinner/pkg/database"
)

// ParticipantRepository provides data access for participants using pgx.
type ParticipantRepository struct {
	pool PoolInterface
}

// NewParticipantRepository creates a new ParticipantRepository with the given pool.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// NewParticipantRepositoryWithPool creates a new ParticipantRepository with a
// custom pool interface. This is primarily used for testing.
func NewParticipantRepositoryWithPool(pool PoolInterface) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// Insert inserts a new participant and returns its generated id.
// Returns service.ErrEmailExists when the email is already registered.
func (r *ParticipantRepository) Insert(ctx context.Context, p *model.Participant) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO participants (email, first_name, last_name, newsletter)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Email, p.FirstName, p.LastName, p.Newsletter).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, service.ErrEmailExists
		}
		return 0, fmt.Errorf("insert participant: %w", err)
	}
	return id, nil
}

// GetByEmail retrieves a participant by lower-cased email.
// Returns nil, nil if no participant is found (service layer handles this).
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	query := `SELECT id, email, first_name, last_name, newsletter, coupon_id, created_at
		FROM participants WHERE email = $1`

	var p model.Participant
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Newsletter, &p.CouponID, &p.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get participant by email: %w", err)
	}
	return &p, nil
}

// GetForUpdate retrieves a participant with a row lock (SELECT FOR UPDATE),
// serializing concurrent allocations for the same participant.
// Returns service.ErrNotRegistered if the participant doesn't exist.
func (r *ParticipantRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Participant, error) {
	query := `SELECT id, email, first_name, last_name, newsletter, coupon_id, created_at
		FROM participants WHERE id = $1 FOR UPDATE`

	var p model.Participant
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Newsletter, &p.CouponID, &p.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotRegistered
		}
		return nil, fmt.Errorf("get participant %d for update: %w", id, err)
	}
	return &p, nil
}

// LinkCoupon writes the participant's redemption reference. The update is
// conditional on the reference still being null, so a double-submit cannot
// attach a second coupon. Returns service.ErrAlreadyRedeemed when the
// condition does not hold.
func (r *ParticipantRepository) LinkCoupon(ctx context.Context, tx database.TxQuerier, participantID, couponID int64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE participants SET coupon_id = $1 WHERE id = $2 AND coupon_id IS NULL`,
		couponID, participantID)
	if err != nil {
		if isUniqueViolation(err) {
			// coupon_id UNIQUE tripped: the coupon is already linked elsewhere
			return service.ErrAlreadyRedeemed
		}
		return fmt.Errorf("link coupon %d to participant %d: %w", couponID, participantID, err)
	}
	if tag.RowsAffected() != 1 {
		return service.ErrAlreadyRedeemed
	}
	return nil
}

// ListWithCoupons returns all participants left-joined with their redeemed
// coupon, newest registration first. Participants who have not spun carry
// null prize fields.
func (r *ParticipantRepository) ListWithCoupons(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
	query := `
		SELECT p.id, p.email, p.first_name, p.last_name, p.created_at,
		       c.type, c.code, c.name, c.used_at
		FROM participants p
		LEFT JOIN coupons c ON c.id = p.coupon_id
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := []model.ParticipantWithCoupon{}
	for rows.Next() {
		var p model.ParticipantWithCoupon
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.RegisteredAt,
			&p.CouponType, &p.CouponCode, &p.CouponName, &p.WonAt,
		); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}
	return participants, nil
}
