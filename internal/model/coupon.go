package model

import "time"

// Coupon represents one redeemable code in the prize inventory.
type Coupon struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Type      PrizeType  `json:"type"`
	Name      string     `json:"name"` // display name frozen at import time
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// ImportCouponsRequest is the DTO for bulk (or single) code import.
type ImportCouponsRequest struct {
	Type  PrizeType `json:"type" validate:"required"`
	Codes []string  `json:"codes" validate:"required,min=1"`
}

// ImportResult reports the per-code outcome of an import batch.
// Duplicates and failures are collected per code, never fatal to the batch.
type ImportResult struct {
	Imported   int      `json:"imported"`
	Skipped    int      `json:"skipped"`
	Duplicates []string `json:"duplicates"`
	Errors     []string `json:"errors"`
}

// CouponFilter narrows coupon listings. Nil fields mean no filter.
type CouponFilter struct {
	Used *bool
	Type *PrizeType
}
