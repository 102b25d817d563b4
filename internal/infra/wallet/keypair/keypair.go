// Package keypair is a Solana wallet provider backed by a local ed25519 key,
// for running the page relay without a browser wallet.
package keypair

import (
	"context"
	"fmt"

	"github.com/gabapcia/blinkrelay/internal/wallet"
	solanadriver "github.com/gabapcia/blinkrelay/internal/wallet/solana"
	"github.com/gagliardetto/solana-go"
)

type provider struct {
	key solana.PrivateKey
}

var _ solanadriver.Provider = (*provider)(nil)

// New returns a provider signing with key.
func New(key solana.PrivateKey) *provider {
	return &provider{key: key}
}

// Load reads a solana-keygen JSON key file.
func Load(path string) (*provider, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}

	return New(key), nil
}

func (p *provider) Connect(ctx context.Context) (solana.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return solana.PublicKey{}, err
	}

	return p.key.PublicKey(), nil
}

// SignTransaction signs a copy of tx in the slot of the key among the
// message's required signers.
func (p *provider) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pub := p.key.PublicKey()
	required := int(tx.Message.Header.NumRequiredSignatures)

	slot := -1
	for i := 0; i < required && i < len(tx.Message.AccountKeys); i++ {
		if tx.Message.AccountKeys[i].Equals(pub) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, wallet.Errorf(wallet.ErrProviderError, fmt.Sprintf("%s is not a required signer of the transaction", pub))
	}

	payload, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, err
	}

	sig, err := p.key.Sign(payload)
	if err != nil {
		return nil, err
	}

	signed := *tx
	signed.Signatures = make([]solana.Signature, max(required, len(tx.Signatures)))
	copy(signed.Signatures, tx.Signatures)
	signed.Signatures[slot] = sig

	return &signed, nil
}
