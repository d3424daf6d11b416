package checkout

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// Confirmation messages shown in the buyer's wallet.
const (
	messageThanks   = "Thanks for your order! 🍪"
	messageDiscount = "Enjoy the discount, free cookie! 🍪"
)

// encode serializes the partially signed transaction for transport.
// MarshalBinary leaves the buyer's signature slot zeroed rather than
// requiring it, which is exactly what we want here.
func encode(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// confirmationMessage picks the message for the coupon branch.
func confirmationMessage(action domain.LoyaltyAction) string {
	if action == domain.Redeem {
		return messageDiscount
	}
	return messageThanks
}
