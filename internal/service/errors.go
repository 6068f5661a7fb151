package service

import "errors"

var (
	// ErrNotRegistered is returned when a spin is attempted for an unknown email
	ErrNotRegistered = errors.New("participant not registered")

	// ErrEmailExists is returned when registering an email that already participated
	ErrEmailExists = errors.New("email already registered")

	// ErrCodeExists is returned when importing a coupon code that already exists
	ErrCodeExists = errors.New("coupon code already exists")

	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponUsed is returned when deleting a coupon that has been redeemed
	ErrCouponUsed = errors.New("coupon already used")

	// ErrOutOfStock is returned when no unused coupons remain in inventory
	ErrOutOfStock = errors.New("no coupons left in inventory")

	// ErrAlreadyRedeemed is returned by the conditional link update when the
	// participant already holds a coupon. The allocation path normally
	// short-circuits before this; hitting it means a concurrent double-submit.
	ErrAlreadyRedeemed = errors.New("participant already redeemed a coupon")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
