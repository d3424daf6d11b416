package checkout

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Accounts holds every resolved address one checkout needs.
type Accounts struct {
	// BuyerCoupon may have been created just now, funded by the shop.
	// Its balance decides the discount.
	BuyerCoupon TokenAccount
	ShopCoupon  solana.PublicKey
	BuyerUSDC   solana.PublicKey
	ShopUSDC    solana.PublicKey
}

// resolveAccounts looks up the token accounts for the buyer and the shop.
// The buyer's coupon account is created if absent — that costs the shop a
// little SOL and is the only network mutation before the transaction is
// handed back. The USDC accounts are lookups only, no creation.
func (b *Builder) resolveAccounts(ctx context.Context, buyer solana.PublicKey) (*Accounts, error) {
	buyerCoupon, ok, err := b.ledger.LookupTokenAccount(ctx, buyer, b.cfg.CouponMint)
	if err != nil {
		return nil, fmt.Errorf("lookup buyer coupon account: %w", err)
	}
	if !ok {
		buyerCoupon, err = b.ledger.CreateTokenAccount(ctx, buyer, b.cfg.CouponMint)
		if err != nil {
			return nil, fmt.Errorf("create buyer coupon account: %w", err)
		}
	}

	shopCoupon, err := b.ledger.AssociatedAddress(b.shop, b.cfg.CouponMint)
	if err != nil {
		return nil, fmt.Errorf("derive shop coupon address: %w", err)
	}

	buyerUSDC, err := b.ledger.AssociatedAddress(buyer, b.cfg.USDCMint)
	if err != nil {
		return nil, fmt.Errorf("derive buyer usdc address: %w", err)
	}

	shopUSDC, err := b.ledger.AssociatedAddress(b.shop, b.cfg.USDCMint)
	if err != nil {
		return nil, fmt.Errorf("derive shop usdc address: %w", err)
	}

	return &Accounts{
		BuyerCoupon: buyerCoupon,
		ShopCoupon:  shopCoupon,
		BuyerUSDC:   buyerUSDC,
		ShopUSDC:    shopUSDC,
	}, nil
}
