package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/enchanted-vault/internal/model"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const (
	// CipherAES256GCM is AES-256 in GCM mode; the tag is the 16-byte GCM tag.
	CipherAES256GCM = "aes-256-gcm"
	// CipherAES128CTR is the Web3 Secret Storage cipher; the tag is
	// keccak256(derivedKey[16:32] || ciphertext).
	CipherAES128CTR = "aes-128-ctr"

	gcmNonceLen = 12
	gcmTagLen   = 16
	ctrIVLen    = aes.BlockSize
)

// Params selects the algorithms and cost used for new envelopes.
type Params struct {
	KDF              string
	ScryptN          int
	ScryptR          int
	ScryptP          int
	PBKDF2Iterations int
	Cipher           string
}

// DefaultParams returns scrypt + AES-256-GCM at the standard cost.
func DefaultParams() Params {
	return Params{
		KDF:              KDFScrypt,
		ScryptN:          DefaultScryptN,
		ScryptR:          DefaultScryptR,
		ScryptP:          DefaultScryptP,
		PBKDF2Iterations: DefaultPBKDF2Iterations,
		Cipher:           CipherAES256GCM,
	}
}

// Validate reports whether p describes a supported configuration.
func (p Params) Validate() error {
	switch p.Cipher {
	case CipherAES256GCM, CipherAES128CTR:
	default:
		return fmt.Errorf("unsupported cipher %q", p.Cipher)
	}
	switch p.KDF {
	case KDFScrypt:
		return checkScrypt(p.ScryptN, p.ScryptR, p.ScryptP)
	case KDFPBKDF2:
		if p.PBKDF2Iterations < 1 || p.PBKDF2Iterations > maxPBKDF2Rounds {
			return fmt.Errorf("pbkdf2 iteration count %d out of range", p.PBKDF2Iterations)
		}
		return nil
	default:
		return fmt.Errorf("unsupported kdf %q", p.KDF)
	}
}

// Encrypt seals secret under a key stretched from password.
// A fresh salt and nonce are drawn on every call.
// password must be []byte for security (caller should zero it after use)
func Encrypt(secret, password []byte, p Params) (*model.Envelope, error) {
	if len(secret) == 0 {
		return nil, errors.New("nothing to encrypt")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Generate salt
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	kp := kdfParams(p)
	key, err := deriveKey(p.KDF, kp, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key) // wipe derived key from memory

	var ciphertext, iv, tag []byte
	switch p.Cipher {
	case CipherAES256GCM:
		ciphertext, iv, tag, err = sealGCM(key, secret)
	case CipherAES128CTR:
		ciphertext, iv, tag, err = sealCTR(key, secret)
	}
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vault id: %w", err)
	}

	return &model.Envelope{
		Version:    model.EnvelopeVersion,
		ID:         id.String(),
		CipherText: hex.EncodeToString(ciphertext),
		KDF:        p.KDF,
		KDFSalt:    hex.EncodeToString(salt),
		KDFParams:  kp,
		Cipher:     p.Cipher,
		CipherIV:   hex.EncodeToString(iv),
		CipherTag:  hex.EncodeToString(tag),
	}, nil
}

func sealGCM(key, plaintext []byte) (ciphertext, nonce, tag []byte, err error) {
	nonce = make([]byte, gcmNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	sealed := aesGCM.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - gcmTagLen
	return sealed[:split], nonce, sealed[split:], nil
}

func sealCTR(key, plaintext []byte) (ciphertext, iv, tag []byte, err error) {
	iv = make([]byte, ctrIVLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	block, err := aes.NewCipher(key[:16])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	ciphertext = make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, plaintext)

	return ciphertext, iv, ctrMAC(key, ciphertext), nil
}

func ctrMAC(key, ciphertext []byte) []byte {
	return ethcrypto.Keccak256(key[16:32], ciphertext)
}
