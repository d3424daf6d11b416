package domain

// LoyaltyAction is the coupon movement attached to a checkout.
type LoyaltyAction string

const (
	// Redeem means the buyer spends coupons for the 50% discount.
	Redeem LoyaltyAction = "REDEEM"
	// Reward means the shop issues a fresh coupon to the buyer.
	Reward LoyaltyAction = "REWARD"
)

const (
	// CouponThreshold is the coupon balance at which the discount kicks in.
	CouponThreshold = 5

	// RedeemUnits is how many coupons a discount costs.
	RedeemUnits = 5

	// RewardUnits is how many coupons a full-price checkout earns.
	RewardUnits = 1

	// CouponDecimals is 0: coupons move in whole units only.
	CouponDecimals = 0
)

// EvaluateLoyalty decides the coupon branch from the buyer's balance.
// The decision is made once per checkout and passed along explicitly,
// never re-derived downstream.
func EvaluateLoyalty(couponBalance uint64) LoyaltyAction {
	if couponBalance >= CouponThreshold {
		return Redeem
	}
	return Reward
}
