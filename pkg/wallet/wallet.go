// Package wallet loads and holds the payer key material. The key is read
// once at startup and reused read-only for every transaction in a run.
package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/disperse-labs/disperse/types"
)

// Wallet holds the payer key used to sign every transaction in a run.
type Wallet struct {
	key solana.PrivateKey
}

// LoadFromFile reads a solana-keygen JSON keypair file.
func LoadFromFile(path string) (*Wallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading keygen file %s: %w", path, err)
	}
	return &Wallet{key: key}, nil
}

// FromBase58 parses a base58-encoded private key.
func FromBase58(encoded string) (*Wallet, error) {
	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &Wallet{key: key}, nil
}

// PublicKey returns the payer public key.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// Address returns the payer address in base58 form.
func (w *Wallet) Address() types.Address {
	return w.key.PublicKey().String()
}

// Sign signs tx with the payer key.
func (w *Wallet) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}
	return nil
}
