package wallet

import (
	"bytes"
	"fmt"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"

	"github.com/sirupsen/logrus"
)

// ChangePassword re-encrypts the vault key under a new password with the
// configured parameters and writes it to a new vault file at out. The
// existing vault is left untouched; out must not exist.
func (m *Manager) ChangePassword(current, next password.Source, out string) (string, error) {
	outPath := m.Resolve(out)
	if next == nil {
		return outPath, errs.Wrap("change-password", outPath, errs.ErrPasswordRequired)
	}
	err := m.reencrypt(current, next, outPath)
	return outPath, errs.Wrap("change-password", outPath, err)
}

// Reencrypt copies the vault key into a new vault file at out using the
// configured KDF and cipher, keeping the current password. It is how
// vaults move to stronger parameters.
func (m *Manager) Reencrypt(current password.Source, out string) (string, error) {
	outPath := m.Resolve(out)
	err := m.reencrypt(current, nil, outPath)
	return outPath, errs.Wrap("reencrypt", outPath, err)
}

// reencrypt seals the vault key for outPath. A nil next reuses the current
// password; otherwise the new password must differ from it.
func (m *Manager) reencrypt(current, next password.Source, outPath string) error {
	if outPath == "" {
		return fmt.Errorf("no destination vault file given")
	}
	if outPath == m.VaultPath() {
		return errs.ErrAlreadyExists
	}
	if ok, err := vaultfile.Exists(outPath); err != nil {
		return fmt.Errorf("failed to stat vault file: %w", err)
	} else if ok {
		return errs.ErrAlreadyExists
	}

	path := m.VaultPath()
	if ok, err := vaultfile.Exists(path); err != nil {
		return fmt.Errorf("failed to stat vault file: %w", err)
	} else if !ok {
		return errs.ErrNotFound
	}

	mem, err := password.Capture(current)
	if err != nil {
		return err
	}
	defer mem.Wipe()

	key, err := m.unlock(path, mem)
	if err != nil {
		return err
	}
	defer hdkey.ZeroKey(key)

	old, err := mem.Password()
	if err != nil {
		return err
	}
	pw := old
	if next != nil {
		pw, err = acquire(next)
		if err != nil {
			clear(old)
			return err
		}
		same := bytes.Equal(old, pw)
		clear(old)
		if same {
			clear(pw)
			return fmt.Errorf("new password must differ from the current one")
		}
	}
	defer clear(pw)

	env, err := m.seal(key, pw)
	if err != nil {
		return err
	}
	if err := vaultfile.Write(env, outPath); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":   outPath,
		"kdf":    env.KDF,
		"cipher": env.Cipher,
	}).Info("Vault re-encrypted")
	return nil
}
