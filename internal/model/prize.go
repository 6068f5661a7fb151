package model

// PrizeType identifies one of the fixed prize kinds on the wheel.
// The wire values match the coupon_type enum in the database and must not
// be changed once coupons exist.
type PrizeType string

const (
	PrizeRainPoncho PrizeType = "HEMA_regenponcho"
	PrizeCredit50   PrizeType = "50_CREDIT"
	PrizeCredit100  PrizeType = "100_CREDIT"
	PrizeCredit250  PrizeType = "250_CREDIT"
	PrizeDiscount15 PrizeType = "15_OFF"
)

// AllPrizeTypes is the canonical ordering used for display and for
// deterministic iteration. New prize kinds are appended here and to the
// display name table together.
var AllPrizeTypes = []PrizeType{
	PrizeRainPoncho,
	PrizeCredit50,
	PrizeCredit100,
	PrizeCredit250,
	PrizeDiscount15,
}

var prizeDisplayNames = map[PrizeType]string{
	PrizeRainPoncho: "HEMA regenponcho",
	PrizeCredit50:   "€50 shoptegoed",
	PrizeCredit100:  "€100 shoptegoed",
	PrizeCredit250:  "€250 shoptegoed",
	PrizeDiscount15: "15% korting",
}

// Valid reports whether t is a known prize type.
func (t PrizeType) Valid() bool {
	_, ok := prizeDisplayNames[t]
	return ok
}

// DisplayName returns the human label for the prize type. Unknown types
// fall back to the raw value so historical rows always render something.
func (t PrizeType) DisplayName() string {
	if name, ok := prizeDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// PrizeTypeInfo is the API projection of an available prize type.
type PrizeTypeInfo struct {
	Type        PrizeType `json:"type"`
	DisplayName string    `json:"display_name"`
}
