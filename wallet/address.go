package wallet

import (
	"fmt"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/password"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of address QR codes.
const DefaultQRSize = 256

// Address decrypts the vault and returns the checksummed account address.
func (m *Manager) Address(passwords password.Source) (string, error) {
	path := m.VaultPath()
	key, err := m.unlock(path, passwords)
	if err != nil {
		return "", errs.Wrap("address", path, err)
	}
	defer hdkey.ZeroKey(key)

	return ethcrypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// AddressQR renders the vault address as a PNG QR code of size pixels.
func (m *Manager) AddressQR(passwords password.Source, size int) ([]byte, error) {
	address, err := m.Address(passwords)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(address, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
