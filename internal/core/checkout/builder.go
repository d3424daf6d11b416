// Package checkout builds the partially signed Solana transaction for one
// point-of-sale checkout: buyer pays the shop in USDC, and depending on
// their coupon balance either redeems 5 coupons for a 50% discount or
// earns 1 coupon. The transaction goes back to the buyer's wallet for the
// final signature and broadcast; we never send it ourselves.
package checkout

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

// Config is the read-only shop configuration the builder needs. It is
// loaded once at startup and injected here — the builder never reads
// globals, so tests can hand it fixture keys.
type Config struct {
	ShopKey    solana.PrivateKey
	USDCMint   solana.PublicKey
	CouponMint solana.PublicKey
}

// Request is one checkout to turn into a transaction.
type Request struct {
	Buyer     solana.PublicKey
	Reference solana.PublicKey
	Amount    domain.Amount // base amount, before any discount
}

// Result is the wallet-facing output of a build.
type Result struct {
	Transaction *solana.Transaction
	Encoded     string // base64, ready for the wallet
	Message     string
	Quote       Quote
}

// Builder turns checkout requests into partially signed transactions.
type Builder struct {
	ledger Ledger
	cfg    Config
	shop   solana.PublicKey
}

func NewBuilder(ledger Ledger, cfg Config) *Builder {
	b := &Builder{ledger: ledger, cfg: cfg}
	if len(cfg.ShopKey) > 0 {
		b.shop = cfg.ShopKey.PublicKey()
	}
	return b
}

// Build runs the whole pipeline: validate, resolve accounts, evaluate the
// price, compose the two instructions, assemble + partially sign, encode.
// The steps are strictly sequential — each needs the previous result, so
// there is nothing to parallelize. If a later step fails after the buyer's
// coupon account was created, that creation is not rolled back (an accepted
// at-least-once side effect; see the Ledger docs).
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	// Validation first: nothing touches the network before this passes.
	if req.Amount.IsZero() {
		return nil, domain.ErrZeroAmount
	}
	if req.Reference.IsZero() {
		return nil, domain.ErrMissingReference
	}
	if req.Buyer.IsZero() {
		return nil, domain.ErrMissingAccount
	}
	if len(b.cfg.ShopKey) == 0 {
		return nil, domain.ErrShopKeyMissing
	}

	accounts, err := b.resolveAccounts(ctx, req.Buyer)
	if err != nil {
		return nil, err
	}

	// The balance is read once per build, never cached across requests.
	quote, err := Evaluate(req.Amount, accounts.BuyerCoupon.Balance)
	if err != nil {
		return nil, err
	}

	decimals, err := b.ledger.MintDecimals(ctx, b.cfg.USDCMint)
	if err != nil {
		return nil, fmt.Errorf("fetch usdc mint: %w", err)
	}

	baseUnits, err := quote.Total.BaseUnits(decimals)
	if err != nil {
		return nil, err
	}

	payment := paymentInstruction(accounts, req.Buyer, b.cfg.USDCMint, req.Reference, baseUnits, decimals)
	loyalty := loyaltyInstruction(quote.Action, accounts, req.Buyer, b.shop, b.cfg.CouponMint)

	blockhash, err := b.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch blockhash: %w", err)
	}

	tx, err := b.assemble(payment, loyalty, req.Buyer, blockhash)
	if err != nil {
		return nil, err
	}

	encoded, err := encode(tx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transaction: tx,
		Encoded:     encoded,
		Message:     confirmationMessage(quote.Action),
		Quote:       quote,
	}, nil
}
