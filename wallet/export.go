package wallet

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// ExportKeystore writes the vault key to out as a Web3 Secret Storage (V3)
// keystore encrypted under the vault password, so it can be imported by
// geth and other Ethereum wallets. out must not exist.
func (m *Manager) ExportKeystore(passwords password.Source, out string) (string, error) {
	outPath := m.Resolve(out)
	err := m.exportKeystore(passwords, outPath)
	return outPath, errs.Wrap("export-keystore", outPath, err)
}

func (m *Manager) exportKeystore(passwords password.Source, outPath string) error {
	if outPath == "" {
		return errors.New("no keystore file given")
	}
	if ok, err := common.FileExists(outPath); err != nil {
		return fmt.Errorf("failed to stat keystore file: %w", err)
	} else if ok {
		return errs.ErrOutputExists
	}

	path := m.VaultPath()
	if ok, err := vaultfile.Exists(path); err != nil {
		return fmt.Errorf("failed to stat vault file: %w", err)
	} else if !ok {
		return errs.ErrNotFound
	}

	// The password is needed twice: once to open the vault and once to
	// seal the keystore. Capture it so a prompt happens only once.
	mem, err := password.Capture(passwords)
	if err != nil {
		return err
	}
	defer mem.Wipe()

	key, err := m.unlock(path, mem)
	if err != nil {
		return err
	}
	defer hdkey.ZeroKey(key)

	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("failed to generate keystore id: %w", err)
	}
	pw, err := mem.Password()
	if err != nil {
		return err
	}
	defer clear(pw)

	keyJSON, err := keystore.EncryptKey(&keystore.Key{
		Id:         id,
		Address:    ethcrypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, string(pw), m.opts.KeystoreScryptN, m.opts.KeystoreScryptP)
	if err != nil {
		return fmt.Errorf("failed to encrypt keystore: %w", err)
	}

	if err := common.WriteFileExclusive(outPath, keyJSON, outputPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.ErrOutputExists
		}
		return fmt.Errorf("failed to write keystore file: %w", err)
	}
	log.WithField("path", outPath).Info("Keystore exported")
	return nil
}
