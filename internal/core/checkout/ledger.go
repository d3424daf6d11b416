package checkout

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// TokenAccount is a token holding account on the ledger.
type TokenAccount struct {
	Address solana.PublicKey
	Balance uint64
}

// Ledger is the chain collaborator the builder talks to. Every method is a
// possibly-failing network call except AssociatedAddress, which is a pure
// derivation. Lookup and creation are split on purpose: the create-if-absent
// branch stays explicit, and each step can fail (and be tested) on its own.
type Ledger interface {
	// LookupTokenAccount returns the owner's holding account for mint.
	// ok=false means the account simply does not exist yet.
	LookupTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (acct TokenAccount, ok bool, err error)

	// CreateTokenAccount creates the owner's holding account for mint,
	// funded by the shop. The creation is submitted to the ledger right
	// away and is NOT rolled back if the checkout fails afterwards.
	CreateTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (TokenAccount, error)

	// AssociatedAddress derives the holding account address for owner/mint
	// without touching the network.
	AssociatedAddress(owner, mint solana.PublicKey) (solana.PublicKey, error)

	// MintDecimals fetches the mint metadata and returns its decimal precision.
	MintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)

	// LatestBlockhash returns a recent finalized blockhash to anchor the
	// transaction's validity window.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
}
