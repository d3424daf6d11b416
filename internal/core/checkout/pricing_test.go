package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

func TestEvaluateRejectsZero(t *testing.T) {
	zero, err := domain.ParseAmount("0")
	require.NoError(t, err)

	_, err = Evaluate(zero, 7)
	assert.ErrorIs(t, err, domain.ErrZeroAmount)
}

func TestEvaluateDiscountRule(t *testing.T) {
	base, err := domain.ParseAmount("10")
	require.NoError(t, err)

	// Eligibility holds iff balance >= 5, and the discount is exactly half
	for balance := uint64(0); balance <= 10; balance++ {
		quote, err := Evaluate(base, balance)
		require.NoError(t, err)

		if balance >= domain.CouponThreshold {
			assert.Equal(t, domain.Redeem, quote.Action, "balance %d", balance)
			assert.True(t, quote.Discounted())
			assert.Equal(t, "5", quote.Total.String())
		} else {
			assert.Equal(t, domain.Reward, quote.Action, "balance %d", balance)
			assert.False(t, quote.Discounted())
			assert.Equal(t, "10", quote.Total.String())
		}
	}
}

func TestEvaluateExactFractions(t *testing.T) {
	base, err := domain.ParseAmount("7.3")
	require.NoError(t, err)

	quote, err := Evaluate(base, 5)
	require.NoError(t, err)
	assert.Equal(t, "3.65", quote.Total.String())
}

func TestEvaluateIsDeterministic(t *testing.T) {
	base, err := domain.ParseAmount("12.34")
	require.NoError(t, err)

	first, err := Evaluate(base, 6)
	require.NoError(t, err)
	second, err := Evaluate(base, 6)
	require.NoError(t, err)

	assert.Equal(t, first.Action, second.Action)
	assert.True(t, first.Total.Equal(second.Total))
}
