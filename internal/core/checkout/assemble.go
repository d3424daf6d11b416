package checkout

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// assemble bundles the two instructions into one atomic transaction:
// payment first, loyalty second, fee paid by the buyer, anchored to a
// recent finalized blockhash. The shop's partial signature is applied
// last — it commits to the instruction bytes, so nothing may be added
// after this point.
//
// The signature is placed by hand rather than via Transaction.PartialSign:
// that helper appends whatever signatures it can produce, but the ledger
// reads signatures positionally against the message's signer list. The
// shop's signature must sit at the shop's signer index, with the buyer's
// slot (index 0, the fee payer) left zeroed for their wallet to fill in.
func (b *Builder) assemble(
	payment, loyalty solana.Instruction,
	buyer solana.PublicKey,
	blockhash solana.Hash,
) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{payment, loyalty},
		blockhash,
		solana.TransactionPayer(buyer),
	)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize message for signing: %w", err)
	}

	shopSig, err := b.cfg.ShopKey.Sign(content)
	if err != nil {
		return nil, fmt.Errorf("partial sign as shop: %w", err)
	}

	numRequired := int(tx.Message.Header.NumRequiredSignatures)
	tx.Signatures = make([]solana.Signature, numRequired)

	placed := false
	for i, key := range tx.Message.AccountKeys[:numRequired] {
		if key.Equals(b.shop) {
			tx.Signatures[i] = shopSig
			placed = true
		}
	}
	if !placed {
		return nil, fmt.Errorf("shop %s is not a required signer of the assembled message", b.shop)
	}

	return tx, nil
}
