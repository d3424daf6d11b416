package checkout

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// paymentInstruction moves the USDC from the buyer to the shop, authorized
// by the buyer. The tracking reference rides along as an extra non-signer,
// non-writable key so the transaction can be found by reference later.
func paymentInstruction(
	accounts *Accounts,
	buyer solana.PublicKey,
	usdcMint solana.PublicKey,
	reference solana.PublicKey,
	baseUnits uint64,
	decimals uint8,
) solana.Instruction {
	ix := token.NewTransferCheckedInstruction(
		baseUnits, // amount in base units of USDC
		decimals,
		accounts.BuyerUSDC, // source
		usdcMint,
		accounts.ShopUSDC, // destination
		buyer,             // owner of the source account
		nil,
	)
	ix.Accounts = append(ix.Accounts,
		solana.NewAccountMeta(reference, false, false))
	return ix.Build()
}

// loyaltyInstruction moves coupons according to the evaluated action:
// Redeem sends 5 coupons buyer -> shop (buyer authorizes), Reward sends
// 1 coupon shop -> buyer (shop authorizes). The shop is appended as a
// signer on BOTH branches: on the redeem branch the buyer is the transfer
// authority, and without this extra key no coupon could be spent without
// the shop's signature.
func loyaltyInstruction(
	action domain.LoyaltyAction,
	accounts *Accounts,
	buyer solana.PublicKey,
	shop solana.PublicKey,
	couponMint solana.PublicKey,
) solana.Instruction {
	var ix *token.TransferChecked
	if action == domain.Redeem {
		ix = token.NewTransferCheckedInstruction(
			domain.RedeemUnits,
			domain.CouponDecimals,
			accounts.BuyerCoupon.Address, // source (buyer)
			couponMint,
			accounts.ShopCoupon, // destination (shop)
			buyer,
			nil,
		)
	} else {
		ix = token.NewTransferCheckedInstruction(
			domain.RewardUnits,
			domain.CouponDecimals,
			accounts.ShopCoupon, // source (shop)
			couponMint,
			accounts.BuyerCoupon.Address, // destination (buyer)
			shop,
			nil,
		)
	}
	ix.Accounts = append(ix.Accounts,
		solana.NewAccountMeta(shop, false, true))
	return ix.Build()
}
