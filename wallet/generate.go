package wallet

import (
	"fmt"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

// GenerateMnemonic returns a new random mnemonic. Nothing is stored; the
// caller is responsible for the phrase.
func (m *Manager) GenerateMnemonic() (string, error) {
	mnemonic, err := hdkey.NewMnemonic(m.opts.MnemonicBits)
	if err != nil {
		return "", errs.Wrap("generate", "", err)
	}
	return mnemonic, nil
}

// Initialize creates the vault from a freshly generated mnemonic.
// The vault must not exist yet; it is checked before the password is
// requested.
func (m *Manager) Initialize(passwords password.Source) (*model.InitializeResult, error) {
	path := m.VaultPath()
	res, err := m.initialize(path, passwords)
	return res, errs.Wrap("initialize", path, err)
}

func (m *Manager) initialize(path string, passwords password.Source) (*model.InitializeResult, error) {
	if ok, err := vaultfile.Exists(path); err != nil {
		return nil, fmt.Errorf("failed to stat vault file: %w", err)
	} else if ok {
		return nil, errs.ErrAlreadyExists
	}

	pw, err := acquire(passwords)
	if err != nil {
		return nil, err
	}
	defer clear(pw) // Always clear password from memory

	mnemonic, err := hdkey.NewMnemonic(m.opts.MnemonicBits)
	if err != nil {
		return nil, err
	}
	key, err := hdkey.DeriveKey(mnemonic, m.opts.Derivation)
	if err != nil {
		return nil, err
	}
	defer hdkey.ZeroKey(key)

	env, err := m.seal(key, pw)
	if err != nil {
		return nil, err
	}
	if err := vaultfile.Write(env, path); err != nil {
		return nil, err
	}

	address := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()
	log.WithFields(logrus.Fields{
		"address": address,
		"kdf":     env.KDF,
		"cipher":  env.Cipher,
	}).Info("Vault initialized")

	return &model.InitializeResult{Path: path, Address: address}, nil
}
