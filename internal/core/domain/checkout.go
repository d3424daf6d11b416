package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checkout is one recorded checkout request: who paid what, under which
// tracking reference, and whether the coupon discount applied. The ledger
// side lives in the serialized transaction; this record exists so the
// shop can find the payment again by reference.
type Checkout struct {
	ID         uuid.UUID
	Reference  string
	Account    string
	Amount     Amount
	Discounted bool
	Status     string // "CREATED" until the wallet broadcasts it
	CreatedAt  time.Time
}
