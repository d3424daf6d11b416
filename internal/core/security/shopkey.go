package security

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// LoadShopKey parses the base58 shop secret key from configuration.
// The shop's public identity is derived from it, so this one value is
// enough to co-sign coupon movements and fund account creation.
func LoadShopKey(raw string) (solana.PrivateKey, error) {
	if raw == "" {
		return nil, domain.ErrShopKeyMissing
	}
	key, err := solana.PrivateKeyFromBase58(raw)
	if err != nil {
		return nil, fmt.Errorf("parse shop private key: %w", err)
	}
	return key, nil
}
