package checkout

import (
	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// Quote is the evaluated price for one checkout: the final payable amount
// and the coupon action that goes with it.
type Quote struct {
	Total  domain.Amount
	Action domain.LoyaltyAction
}

func (q Quote) Discounted() bool {
	return q.Action == domain.Redeem
}

// Evaluate applies the coupon rule to the base amount. A zero charge is
// rejected outright. Buyers holding at least the threshold redeem coupons
// and pay half; everyone else pays full price and earns a coupon.
// Pure: same inputs, same quote.
func Evaluate(base domain.Amount, couponBalance uint64) (Quote, error) {
	if base.IsZero() {
		return Quote{}, domain.ErrZeroAmount
	}

	action := domain.EvaluateLoyalty(couponBalance)
	total := base
	if action == domain.Redeem {
		total = base.Halve()
	}

	return Quote{Total: total, Action: action}, nil
}
