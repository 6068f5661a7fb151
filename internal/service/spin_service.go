package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/model"
	"github.com/AZ-BB/dutch-spinner/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, code string, prizeType model.PrizeType, displayName string) error
	GetByID(ctx context.Context, q database.TxQuerier, id int64) (*model.Coupon, error)
	List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error)
	TypesWithStock(ctx context.Context, q database.TxQuerier) ([]model.PrizeType, error)
	ClaimOldest(ctx context.Context, tx database.TxQuerier, prizeType model.PrizeType) (*model.Coupon, error)
	DeleteUnused(ctx context.Context, id int64) error
}

// ParticipantRepositoryInterface defines the interface for participant data access.
type ParticipantRepositoryInterface interface {
	Insert(ctx context.Context, p *model.Participant) (int64, error)
	GetByEmail(ctx context.Context, email string) (*model.Participant, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Participant, error)
	LinkCoupon(ctx context.Context, tx database.TxQuerier, participantID, couponID int64) error
	ListWithCoupons(ctx context.Context) ([]model.ParticipantWithCoupon, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SpinService is the allocation engine: it assigns at most one coupon to a
// participant, ever, inside a single database transaction.
type SpinService struct {
	pool            TxBeginner
	couponRepo      CouponRepositoryInterface
	participantRepo ParticipantRepositoryInterface

	mu  sync.Mutex // guards rng, rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewSpinService creates a SpinService with a time-seeded random source.
func NewSpinService(pool *pgxpool.Pool, couponRepo CouponRepositoryInterface, participantRepo ParticipantRepositoryInterface) *SpinService {
	return NewSpinServiceWithRand(pool, couponRepo, participantRepo,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSpinServiceWithRand creates a SpinService with an explicit random
// source so prize-type selection is reproducible under test.
func NewSpinServiceWithRand(pool TxBeginner, couponRepo CouponRepositoryInterface, participantRepo ParticipantRepositoryInterface, rng *rand.Rand) *SpinService {
	return &SpinService{
		pool:            pool,
		couponRepo:      couponRepo,
		participantRepo: participantRepo,
		rng:             rng,
	}
}

func (s *SpinService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Spin resolves the participant by email and runs the allocation.
// Returns ErrNotRegistered when the email is unknown.
func (s *SpinService) Spin(ctx context.Context, email string) (*model.SpinResult, error) {
	// Emails are stored lower-cased at registration; compare the same way
	email = strings.ToLower(strings.TrimSpace(email))
	participant, err := s.participantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up participant: %w", err)
	}
	if participant == nil {
		return nil, ErrNotRegistered
	}
	return s.Allocate(ctx, participant.ID)
}

// Allocate assigns exactly one coupon to the participant, or replays the
// original assignment if one already exists.
//
// The whole operation is one transaction:
//  1. Lock the participant row. Two concurrent requests for the same
//     participant serialize here; the loser sees the winner's coupon_id and
//     replays it.
//  2. Draw a prize type uniformly among types that currently have unused
//     stock, then claim the lowest-id unused coupon of that type. A drained
//     type (raced by another participant's claim) is dropped from the
//     candidates and the draw repeats over the rest.
//  3. Link the coupon to the participant under the coupon_id-is-null guard.
//
// Commit makes the used flag and the link visible together; any failure
// rolls both back, so a coupon can never end up used but unlinked.
func (s *SpinService) Allocate(ctx context.Context, participantID int64) (*model.SpinResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	participant, err := s.participantRepo.GetForUpdate(ctx, tx, participantID)
	if err != nil {
		return nil, err
	}

	if participant.CouponID != nil {
		coupon, err := s.couponRepo.GetByID(ctx, tx, *participant.CouponID)
		if err != nil {
			// A linked coupon must exist: the deletion guard refuses used
			// coupons. Surface loudly instead of drawing again.
			log.Error().Err(err).
				Int64("participant_id", participantID).
				Int64("coupon_id", *participant.CouponID).
				Msg("redeemed coupon missing from inventory")
			return nil, fmt.Errorf("fetch redeemed coupon: %w", err)
		}
		return &model.SpinResult{
			PrizeType:   coupon.Type,
			DisplayName: coupon.Name,
			Code:        coupon.Code,
			AlreadySpun: true,
		}, nil
	}

	types, err := s.couponRepo.TypesWithStock(ctx, tx)
	if err != nil {
		return nil, err
	}
	sortCanonical(types)

	for len(types) > 0 {
		i := s.intn(len(types))
		prizeType := types[i]
		coupon, err := s.couponRepo.ClaimOldest(ctx, tx, prizeType)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			// Drawn type drained by a concurrent claim between the stock
			// query and the claim. Drop it and redraw from the rest.
			types = append(types[:i], types[i+1:]...)
			continue
		}

		if err := s.participantRepo.LinkCoupon(ctx, tx, participantID, coupon.ID); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit allocation: %w", err)
		}

		log.Info().
			Int64("participant_id", participantID).
			Str("prize_type", string(coupon.Type)).
			Str("code", coupon.Code).
			Msg("coupon allocated")

		return &model.SpinResult{
			PrizeType:   coupon.Type,
			DisplayName: coupon.Name,
			Code:        coupon.Code,
		}, nil
	}

	return nil, ErrOutOfStock
}

// sortCanonical orders prize types by their fixed enum ordering so the
// random draw is reproducible for a given seed and stock set.
func sortCanonical(types []model.PrizeType) {
	order := make(map[model.PrizeType]int, len(model.AllPrizeTypes))
	for i, t := range model.AllPrizeTypes {
		order[t] = i
	}
	sort.Slice(types, func(i, j int) bool {
		oi, iok := order[types[i]]
		oj, jok := order[types[j]]
		if iok != jok {
			return iok // known types before unknown
		}
		if !iok {
			return types[i] < types[j]
		}
		return oi < oj
	})
}
