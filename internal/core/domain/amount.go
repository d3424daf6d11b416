package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroAmount    = errors.New("can't checkout with charge of 0")
)

// Amount is a payable amount in human units (e.g. 2.5 USDC).
// We keep it as an exact decimal and only scale to the token's base units
// when the transfer instruction is built, using the mint's declared decimals.
type Amount struct {
	value decimal.Decimal
}

func NewAmount(value decimal.Decimal) Amount {
	return Amount{value: value}
}

// ParseAmount parses the amount query parameter sent by the storefront.
func ParseAmount(raw string) (Amount, error) {
	if raw == "" {
		return Amount{}, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if value.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{value: value}, nil
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Halve applies the 50% coupon discount.
func (a Amount) Halve() Amount {
	return Amount{value: a.value.Div(decimal.NewFromInt(2))}
}

// BaseUnits scales the amount by the token's decimals.
// Example: 2.5 USDC with 6 decimals -> 2500000.
// Amounts finer than the mint's precision, and amounts too large for the
// token program's u64, are rejected instead of silently truncated.
func (a Amount) BaseUnits(decimals uint8) (uint64, error) {
	shifted := a.value.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more precision than the token's %d decimals", ErrInvalidAmount, a.value, decimals)
	}
	big := shifted.BigInt()
	if !big.IsUint64() {
		return 0, fmt.Errorf("%w: %s does not fit the token's amount range", ErrInvalidAmount, a.value)
	}
	return big.Uint64(), nil
}

func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

func (a Amount) String() string {
	return a.value.String()
}
