package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AZ-BB/dutch-spinner/internal/model"
)

// ParticipantService provides registration and the participant projection.
type ParticipantService struct {
	participantRepo ParticipantRepositoryInterface
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(participantRepo ParticipantRepositoryInterface) *ParticipantService {
	return &ParticipantService{participantRepo: participantRepo}
}

// Register creates a participant. The email is canonicalized to lower case
// so comparisons are case-insensitive. Returns ErrEmailExists when the
// email already participated.
func (s *ParticipantService) Register(ctx context.Context, req *model.RegisterRequest) (int64, error) {
	if req == nil {
		return 0, ErrInvalidRequest
	}

	p := &model.Participant{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Newsletter: req.Newsletter,
	}
	if p.Email == "" || p.FirstName == "" || p.LastName == "" {
		return 0, ErrInvalidRequest
	}

	id, err := s.participantRepo.Insert(ctx, p)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListParticipants returns all participants joined with their redeemed
// coupon, newest registration first.
func (s *ParticipantService) ListParticipants(ctx context.Context) ([]model.ParticipantWithCoupon, error) {
	participants, err := s.participantRepo.ListWithCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}
