// Package ledger implements the chain collaborator over a Solana RPC node.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/checkout"
)

// Client talks to a Solana RPC endpoint. Account creation is funded by the
// shop key, so the same client serves both lookups and the one mutating call.
type Client struct {
	rpc     *rpc.Client
	shopKey solana.PrivateKey
}

var _ checkout.Ledger = (*Client)(nil)

func NewClient(endpoint string, shopKey solana.PrivateKey) *Client {
	return &Client{
		rpc:     rpc.New(endpoint),
		shopKey: shopKey,
	}
}

// LookupTokenAccount fetches the owner's associated token account for mint.
// ok=false means the account does not exist yet — that is not an error.
func (c *Client) LookupTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (checkout.TokenAccount, bool, error) {
	addr, err := c.AssociatedAddress(owner, mint)
	if err != nil {
		return checkout.TokenAccount{}, false, err
	}

	info, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentFinalized,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return checkout.TokenAccount{}, false, nil
	}
	if err != nil {
		return checkout.TokenAccount{}, false, fmt.Errorf("get account %s: %w", addr, err)
	}

	var acct token.Account
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&acct); err != nil {
		return checkout.TokenAccount{}, false, fmt.Errorf("decode token account %s: %w", addr, err)
	}

	return checkout.TokenAccount{Address: addr, Balance: acct.Amount}, true, nil
}

// CreateTokenAccount creates the associated token account for owner/mint,
// paid for and signed by the shop. The creation transaction is submitted
// immediately; if the checkout fails later the account stays behind. The
// returned balance is zero — the account is brand new.
func (c *Client) CreateTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (checkout.TokenAccount, error) {
	shop := c.shopKey.PublicKey()

	ix, err := associatedtokenaccount.NewCreateInstruction(shop, owner, mint).ValidateAndBuild()
	if err != nil {
		return checkout.TokenAccount{}, fmt.Errorf("build create account instruction: %w", err)
	}

	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return checkout.TokenAccount{}, fmt.Errorf("get blockhash for account creation: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		recent.Value.Blockhash,
		solana.TransactionPayer(shop),
	)
	if err != nil {
		return checkout.TokenAccount{}, fmt.Errorf("build create account transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(shop) {
			return &c.shopKey
		}
		return nil
	}); err != nil {
		return checkout.TokenAccount{}, fmt.Errorf("sign create account transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return checkout.TokenAccount{}, fmt.Errorf("send create account transaction: %w", err)
	}
	slog.Info("Created coupon account for buyer", "owner", owner.String(), "signature", sig.String())

	addr, err := c.AssociatedAddress(owner, mint)
	if err != nil {
		return checkout.TokenAccount{}, err
	}
	return checkout.TokenAccount{Address: addr, Balance: 0}, nil
}

// AssociatedAddress derives the associated token account address. Pure
// derivation, no network call.
func (c *Client) AssociatedAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated address: %w", err)
	}
	return addr, nil
}

// MintDecimals reads the mint account and returns its decimal precision.
func (c *Client) MintDecimals(ctx context.Context, mintAddr solana.PublicKey) (uint8, error) {
	info, err := c.rpc.GetAccountInfo(ctx, mintAddr)
	if err != nil {
		return 0, fmt.Errorf("get mint %s: %w", mintAddr, err)
	}

	var mint token.Mint
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&mint); err != nil {
		return 0, fmt.Errorf("decode mint %s: %w", mintAddr, err)
	}
	return mint.Decimals, nil
}

// LatestBlockhash returns a recent finalized blockhash.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}
