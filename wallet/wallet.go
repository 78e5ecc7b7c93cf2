// Package wallet manages a single password-protected key vault: it creates
// the vault from a fresh mnemonic, reports the account address and signs
// transactions with the stored key.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/crypto"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	DefaultDir  = "."
	DefaultFile = "vault.json"

	privateKeyLen = 32
)

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	Dir  string
	File string

	// Cipher selects the KDF and cipher for newly written vaults.
	Cipher crypto.Params
	// Derivation selects the account derived from the generated mnemonic.
	Derivation hdkey.DeriveOptions
	// MnemonicBits is the entropy of generated mnemonics.
	MnemonicBits int
	// ExpectedChainID, when set, rejects transactions for any other chain.
	ExpectedChainID *big.Int

	// KeystoreScryptN and KeystoreScryptP are the cost of exported keystores.
	KeystoreScryptN int
	KeystoreScryptP int
}

// Manager runs vault operations against one vault file.
type Manager struct {
	opts Options
}

// New validates opts and fills in defaults.
func New(opts Options) (*Manager, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.Cipher == (crypto.Params{}) {
		opts.Cipher = crypto.DefaultParams()
	}
	if err := opts.Cipher.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault parameters: %w", err)
	}
	if opts.MnemonicBits == 0 {
		opts.MnemonicBits = hdkey.DefaultEntropyBits
	}
	if _, err := hdkey.ParsePath(opts.Derivation.Path); err != nil {
		return nil, err
	}
	if opts.ExpectedChainID != nil && opts.ExpectedChainID.Sign() <= 0 {
		return nil, errors.New("expected chain id must be positive")
	}
	if opts.KeystoreScryptN == 0 {
		opts.KeystoreScryptN = keystore.StandardScryptN
	}
	if opts.KeystoreScryptP == 0 {
		opts.KeystoreScryptP = keystore.StandardScryptP
	}
	return &Manager{opts: opts}, nil
}

// VaultPath returns the vault file location.
func (m *Manager) VaultPath() string {
	return common.ResolvePath(m.opts.Dir, m.opts.File)
}

// Resolve places name relative to the vault directory.
func (m *Manager) Resolve(name string) string {
	return common.ResolvePath(m.opts.Dir, name)
}

// acquire asks src for a password and fails with ErrPasswordRequired when
// it yields nothing.
func acquire(src password.Source) ([]byte, error) {
	if src == nil {
		return nil, errs.ErrPasswordRequired
	}
	pw, err := src.Password()
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errs.ErrPasswordRequired
	}
	return pw, nil
}

// unlock reads the vault at path, decrypts it and returns the stored key.
// The file is checked before the password is requested so a missing vault
// never triggers a prompt. Callers must hdkey.ZeroKey the result.
func (m *Manager) unlock(path string, passwords password.Source) (*ecdsa.PrivateKey, error) {
	env, err := vaultfile.Read(path)
	if err != nil {
		return nil, err
	}

	pw, err := acquire(passwords)
	if err != nil {
		return nil, err
	}
	defer clear(pw) // Always clear password from memory

	raw, err := crypto.Decrypt(env, pw)
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	if len(raw) != privateKeyLen {
		return nil, errs.Formatf("vault holds a %d-byte secret, want %d", len(raw), privateKeyLen)
	}
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, errs.Formatf("vault holds an invalid private key")
	}

	if env.Address != "" {
		stored := ethcommon.HexToAddress(env.Address)
		if derived := ethcrypto.PubkeyToAddress(key.PublicKey); derived != stored {
			hdkey.ZeroKey(key)
			return nil, errs.Formatf("vault address %s does not match its key", stored.Hex())
		}
	}
	return key, nil
}

// seal encrypts key under pw with the configured parameters and records
// the address as public metadata.
func (m *Manager) seal(key *ecdsa.PrivateKey, pw []byte) (*model.Envelope, error) {
	raw := ethcrypto.FromECDSA(key)
	defer clear(raw)

	env, err := crypto.Encrypt(raw, pw, m.opts.Cipher)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt vault: %w", err)
	}
	env.Address = ethcrypto.PubkeyToAddress(key.PublicKey).Hex()
	return env, nil
}
