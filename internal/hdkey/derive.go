package hdkey

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DefaultPath is the first account of the BIP-44 Ethereum tree.
const DefaultPath = "m/44'/60'/0'/0/0"

// DeriveOptions are passed at call time rather than held as package state.
type DeriveOptions struct {
	// Path is a BIP-32 derivation path; empty means DefaultPath.
	Path string
	// Passphrase is the optional BIP-39 passphrase ("25th word").
	Passphrase string
}

// ParsePath parses a derivation path such as "m/44'/60'/0'/0/0".
func ParsePath(path string) (accounts.DerivationPath, error) {
	if path == "" {
		path = DefaultPath
	}
	dp, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, errs.Formatf("invalid derivation path %q: %v", path, err)
	}
	return dp, nil
}

// DeriveKey validates mnemonic and derives the private key at opts.Path.
// The same phrase and options always produce the same key.
func DeriveKey(mnemonic string, opts DeriveOptions) (*ecdsa.PrivateKey, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	path, err := ParsePath(opts.Path)
	if err != nil {
		return nil, err
	}

	seed := bip39.NewSeed(strings.Join(strings.Fields(mnemonic), " "), opts.Passphrase)
	defer clear(seed)

	// chaincfg only selects the xprv version bytes, which never leave this function.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, index := range path {
		child, err := key.Derive(index)
		key.Zero()
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", index, err)
		}
		key = child
	}
	defer key.Zero()

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}
	raw := priv.Serialize()
	defer clear(raw)
	priv.Zero()

	ecdsaKey, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key: %w", err)
	}
	return ecdsaKey, nil
}

// ZeroKey overwrites the private scalar of k.
func ZeroKey(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	b := k.D.Bits()
	for i := range b {
		b[i] = 0
	}
}
