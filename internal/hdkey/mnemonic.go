// Package hdkey turns BIP-39 mnemonic phrases into secp256k1 account keys.
package hdkey

import (
	"fmt"
	"strings"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	"github.com/tyler-smith/go-bip39"
)

// DefaultEntropyBits yields a 12-word phrase.
const DefaultEntropyBits = 128

// NewMnemonic generates a new English BIP-39 mnemonic from bits of entropy.
// bits must be a multiple of 32 between 128 and 256.
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word count, wordlist membership and checksum.
func ValidateMnemonic(mnemonic string) error {
	words := strings.Fields(mnemonic)
	switch len(words) {
	case 0:
		return errs.Formatf("mnemonic required")
	case 12, 15, 18, 21, 24:
	default:
		return errs.Formatf("mnemonic has %d words, expected 12, 15, 18, 21 or 24", len(words))
	}
	if !bip39.IsMnemonicValid(strings.Join(words, " ")) {
		return errs.Formatf("invalid mnemonic phrase")
	}
	return nil
}
