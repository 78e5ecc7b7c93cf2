package model

import (
	"encoding/hex"
	"strings"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	"github.com/ethereum/go-ethereum/common"
)

// EnvelopeVersion is the only vault file format version understood by this build.
const EnvelopeVersion = 1

// Envelope represents the vault file structure.
// Byte fields are hex encoded without a 0x prefix.
type Envelope struct {
	Version    int       `json:"version"`
	ID         string    `json:"id"`
	Address    string    `json:"address"` // public, checked against the decrypted key
	CipherText string    `json:"ciphertext"`
	KDF        string    `json:"kdf"`
	KDFSalt    string    `json:"kdf_salt"`
	KDFParams  KDFParams `json:"kdf_params"`
	Cipher     string    `json:"cipher"`
	CipherIV   string    `json:"cipher_iv_or_nonce"`
	CipherTag  string    `json:"cipher_tag"`
}

// KDFParams holds the cost parameters of the key derivation function.
// scrypt uses N, R and P; pbkdf2 uses C and PRF.
type KDFParams struct {
	N     int    `json:"n,omitempty"`
	R     int    `json:"r,omitempty"`
	P     int    `json:"p,omitempty"`
	C     int    `json:"c,omitempty"`
	PRF   string `json:"prf,omitempty"`
	DKLen int    `json:"dklen"`
}

// Validate checks that every required field is present and decodable.
// Algorithm-specific checks are left to the cipher.
func (e *Envelope) Validate() error {
	if e.Version != EnvelopeVersion {
		return errs.Formatf("unsupported vault version %d", e.Version)
	}
	if e.Address != "" && !common.IsHexAddress(e.Address) {
		return errs.Formatf("invalid address %q", e.Address)
	}
	if e.KDF == "" {
		return errs.Formatf("missing kdf")
	}
	if e.Cipher == "" {
		return errs.Formatf("missing cipher")
	}
	if e.KDFParams.DKLen <= 0 {
		return errs.Formatf("missing kdf_params.dklen")
	}
	hexFields := []struct {
		name  string
		value string
	}{
		{"ciphertext", e.CipherText},
		{"kdf_salt", e.KDFSalt},
		{"cipher_iv_or_nonce", e.CipherIV},
		{"cipher_tag", e.CipherTag},
	}
	for _, f := range hexFields {
		if f.value == "" {
			return errs.Formatf("missing %s", f.name)
		}
		if _, err := hex.DecodeString(f.value); err != nil {
			return errs.Formatf("%s is not valid hex", f.name)
		}
	}
	return nil
}

// KeystoreVersion is the Web3 Secret Storage format written by geth and
// eth_account. Such files are read as vaults but never written as one.
const KeystoreVersion = 3

// Keystore is a Web3 Secret Storage (V3) key file.
type Keystore struct {
	Version int            `json:"version"`
	ID      string         `json:"id"`
	Address string         `json:"address"`
	Crypto  KeystoreCrypto `json:"crypto"`
}

type KeystoreCrypto struct {
	Cipher       string `json:"cipher"`
	CipherText   string `json:"ciphertext"`
	CipherParams struct {
		IV string `json:"iv"`
	} `json:"cipherparams"`
	KDF       string            `json:"kdf"`
	KDFParams KeystoreKDFParams `json:"kdfparams"`
	MAC       string            `json:"mac"`
}

// KeystoreKDFParams carries the salt alongside the cost parameters.
type KeystoreKDFParams struct {
	KDFParams
	Salt string `json:"salt"`
}

// Envelope maps the keystore onto the vault envelope layout.
// aes-128-ctr with a keccak256 MAC and both KDFs line up field for field.
func (k *Keystore) Envelope() (*Envelope, error) {
	if k.Version != KeystoreVersion {
		return nil, errs.Formatf("unsupported keystore version %d", k.Version)
	}
	address := k.Address
	if address != "" && !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}
	env := &Envelope{
		Version:    EnvelopeVersion,
		ID:         k.ID,
		Address:    address,
		CipherText: k.Crypto.CipherText,
		KDF:        k.Crypto.KDF,
		KDFSalt:    k.Crypto.KDFParams.Salt,
		KDFParams:  k.Crypto.KDFParams.KDFParams,
		Cipher:     k.Crypto.Cipher,
		CipherIV:   k.Crypto.CipherParams.IV,
		CipherTag:  k.Crypto.MAC,
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}
