package model

import "time"

// Participant is a registered visitor. Email is stored lower-cased and is
// unique. CouponID is set exactly once, by a successful spin.
type Participant struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Newsletter   bool      `json:"newsletter"`
	CouponID     *int64    `json:"coupon_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ParticipantWithCoupon is the admin projection: a participant left-joined
// with the coupon they redeemed, if any.
type ParticipantWithCoupon struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	RegisteredAt time.Time  `json:"registered_at"`
	CouponType   *PrizeType `json:"coupon_type"`
	CouponCode   *string    `json:"coupon_code"`
	CouponName   *string    `json:"coupon_name"`
	WonAt        *time.Time `json:"won_at"`
}

// RegisterRequest is the DTO for participant registration.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	FirstName  string `json:"first_name" validate:"required,notblank,max=255"`
	LastName   string `json:"last_name" validate:"required,notblank,max=255"`
	Newsletter bool   `json:"newsletter"`
}

// SpinRequest is the DTO for a spin attempt.
type SpinRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// SpinResult is the outcome of an allocation. AlreadySpun marks an
// idempotent replay carrying the originally assigned prize.
type SpinResult struct {
	PrizeType   PrizeType `json:"prize_type"`
	DisplayName string    `json:"display_name"`
	Code        string    `json:"code"`
	AlreadySpun bool      `json:"already_spun"`
}
